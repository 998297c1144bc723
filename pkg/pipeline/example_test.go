package pipeline_test

import (
	"context"
	"fmt"

	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/pipeline"
)

func ExampleRunner_Build() {
	people := []person.Record{
		{Xref: "@I1@", Name: "Ada Lovelace", FatherXref: "@I2@"},
		{Xref: "@I2@", Name: "Lord Byron"},
	}

	runner := pipeline.NewRunner(nil, nil, nil)
	res, err := runner.Build(context.Background(), pipeline.NewDataset(people), pipeline.Options{
		Root:        "ada",
		Generations: 2,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Status)
	for _, n := range res.Scene.Nodes {
		fmt.Println(n.Key, n.Lines[0])
	}
	// Output:
	// Ancestors of Ada Lovelace (@I1@) · 2 generations
	// r Ada Lovelace
	// r.f Lord Byron
	// r.m Unknown
}

func ExampleRunner_Build_emptyState() {
	runner := pipeline.NewRunner(nil, nil, nil)
	_, err := runner.Build(context.Background(), pipeline.NewDataset(nil), pipeline.Options{Root: "@I1@"})
	if fterrors.IsEmptyState(err) {
		fmt.Println(fterrors.UserMessage(err))
	}
	// Output:
	// No people loaded. Load a person list first.
}
