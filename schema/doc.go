// Package schema is a small grammar engine for validating untyped documents
// (the map[string]any / []any trees produced by decoding JSON or YAML).
//
// A grammar is assembled from nodes:
//
//	actor := schema.Union("type").
//		Variant("player", schema.Object().
//			Field("type", schema.Const("player")).Required().
//			Field("id", schema.String().Min(1)).Required().
//			UnknownStrict().MustBuild()).
//		MustBuild()
//
//	iss := actor.Check(v, schema.Root())
//
// Every node reports all violations it finds as Issues carrying a JSON
// Pointer path, a stable code and a message produced through the i18n
// package. Nodes are immutable once built and safe for concurrent use.
//
// Unknown object keys are governed per object by an UnknownPolicy: strict
// objects reject undeclared keys, passthrough objects ignore them.
package schema
