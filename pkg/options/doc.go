// Package options resolves dependent option lists. When a field named in
// another field's dynamicOptions changes, the Resolver asks a Fetcher for the
// new list using the trigger field id and value as the only query parameter.
//
// Failures never propagate: they are logged and resolve to an empty list so a
// broken option source cannot block the rest of the form.
package options
