// Package normalize converts the loosely typed schema served by the forms API
// into the canonical model.FormStructure.
//
// Group fields become sections; every other top-level field lands in a single
// synthesized "general" section created where the first such field appears.
// Options are coerced to label/value pairs whatever shape they arrived in and
// visibility blocks collapse to an equality predicate. Normalization never
// rejects input. When no schema is available at all, Default supplies a
// minimal personal-information form so callers always have a structure.
package normalize
