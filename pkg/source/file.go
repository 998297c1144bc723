package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/person"
)

// Format is a person file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fterrors.New(fterrors.ErrCodeUnsupported,
		"unsupported person file %q (want .json, .yaml or .yml)", filepath.Base(path))
}

// File reads a person list from a JSON or YAML file. The document is either
// a list of records or an object with a "people" list.
type File struct {
	Path string
}

// NewFile returns a file source.
func NewFile(path string) *File {
	return &File{Path: path}
}

// envelope is the object form of a person file.
type envelope struct {
	People []person.Record `json:"people" yaml:"people"`
}

// Load reads, validates and normalizes the file.
func (f *File) Load(context.Context) ([]person.Record, error) {
	if err := fterrors.ValidatePath(f.Path); err != nil {
		return nil, err
	}
	format, err := FormatFor(f.Path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "person file not found: %s", f.Path)
	}
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeInternal, err, "read %s", f.Path)
	}

	persons, err := Decode(data, format)
	if err != nil {
		return nil, fterrors.Wrap(fterrors.GetCode(err), err, "%s", filepath.Base(f.Path))
	}
	return persons, nil
}

// Save writes the list in the file's format, replacing the file atomically.
func (f *File) Save(_ context.Context, persons []person.Record) error {
	format, err := FormatFor(f.Path)
	if err != nil {
		return err
	}
	data, err := Encode(persons, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fterrors.Wrap(fterrors.ErrCodeInternal, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fterrors.Wrap(fterrors.ErrCodeInternal, err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return fterrors.Wrap(fterrors.ErrCodeInternal, err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fterrors.Wrap(fterrors.ErrCodeInternal, err, "replace %s", f.Path)
	}
	return nil
}

// Decode parses a person document, then validates and normalizes it.
func Decode(data []byte, format Format) ([]person.Record, error) {
	var persons []person.Record
	var err error
	switch format {
	case FormatJSON:
		persons, err = decodeJSON(data)
	case FormatYAML:
		persons, err = decodeYAML(data)
	default:
		return nil, fterrors.New(fterrors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeInvalidInput, err, "decode %s", format)
	}

	if err := person.Validate(persons); err != nil {
		return nil, err
	}
	person.Normalize(persons)
	if persons == nil {
		persons = []person.Record{}
	}
	return persons, nil
}

func decodeJSON(data []byte) ([]person.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var env envelope
		err := json.Unmarshal(trimmed, &env)
		return env.People, err
	}
	var persons []person.Record
	err := json.Unmarshal(trimmed, &persons)
	return persons, err
}

func decodeYAML(data []byte) ([]person.Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.MappingNode {
		var env envelope
		err := node.Decode(&env)
		return env.People, err
	}
	var persons []person.Record
	err := node.Decode(&persons)
	return persons, err
}

// Encode serializes a person list as a bare list.
func Encode(persons []person.Record, format Format) ([]byte, error) {
	if persons == nil {
		persons = []person.Record{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(persons, "", "  ")
		if err != nil {
			return nil, fterrors.Wrap(fterrors.ErrCodeInternal, err, "encode json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(persons)
		if err != nil {
			return nil, fterrors.Wrap(fterrors.ErrCodeInternal, err, "encode yaml")
		}
		return data, nil
	}
	return nil, fterrors.New(fterrors.ErrCodeUnsupported, "unsupported format %q", format)
}

var (
	_ Source = (*File)(nil)
	_ Saver  = (*File)(nil)
)
