// Package schema provides a fluent API for declaring the JSON shape a model
// must reply with.
//
// Schemas are built programmatically and validated when built:
//
//	item := schema.Object().
//		Field("title", schema.String().Required()).
//		Field("year", schema.String().Required())
//
//	reply := schema.Object().
//		Field("recommendations", schema.Array(item).Required()).
//		MustBuild()
//
// Object builders remember the order fields were added in and emit it as
// propertyOrdering, which Gemini uses to order generated keys. Providers that
// do not understand the keyword strip it with [StripKeyword].
package schema
