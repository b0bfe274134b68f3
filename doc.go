// Package bcf implements the Blert Chart Format (BCF): a document format
// describing a tick-indexed combat timeline of actors, their per-tick actions
// and their state.
//
// The package provides:
//
// - The document model (Document, Actor and Action variants, State, and the
// augmentation types used for display hints)
// - A two-stage validator: a versioned structural grammar (strict or lax),
// followed by cross-referential semantic checks
// - Version detection with forward-compatible lax parsing of unknown minor
// versions
//
// Design policy:
// - Validation is total: malformed input never panics, it produces
// ValidationErrors with JSON Pointer paths.
// - Schema errors stop the pipeline; semantic errors are collected in full.
// - Resolving actor state from a validated document lives in the resolver
// subpackage.
//
// Typical usage:
//
//	res := bcf.ParseAndValidate(data)
//	if !res.Valid {
//		for _, e := range res.Errors {
//			fmt.Println(e)
//		}
//		return
//	}
//	r := resolver.New(res.Document)
//	state, ok := r.PlayerState("p1", 42)
package bcf
