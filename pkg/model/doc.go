// Package model defines the canonical form structure consumed by the session,
// validation, visibility, and renderer packages. Raw schemas are converted into
// these types by package normalize; nothing downstream inspects the raw shape.
//
// FormStructure values are treated as immutable once published. The only
// sanctioned mutation, replacing a field's options after a dependent lookup,
// goes through WithFieldOptions, which returns a fresh copy so concurrent
// readers never observe a partially rewritten tree.
package model
