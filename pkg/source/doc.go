// Package source loads person lists for the family-tree engine.
//
// A [Source] returns the complete, ordered person list. The engine never
// receives deltas: every load is a full replacement and everything derived
// from the previous list is rebuilt.
//
// # Providers
//
//   - [File] reads JSON or YAML files, chosen by extension
//   - [Mongo] reads one session's people from a MongoDB collection
//   - [Static] serves an in-memory list, for tests and the HTTP server
//
// Providers that can also write a list implement [Saver].
//
// # Watching
//
// [Watch] follows a person file with fsnotify and calls back with the
// reloaded list after a quiet period, so editors that write a file in
// several steps trigger a single reload:
//
//	w, err := source.Watch(ctx, source.NewFile("people.json"), func(people []person.Record, err error) {
//	    if err != nil {
//	        logger.Warn("reload failed", "err", err)
//	        return
//	    }
//	    rebuild(people)
//	}, nil)
//	defer w.Stop()
package source
