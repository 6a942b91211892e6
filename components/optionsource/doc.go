// Package optionsource serves dependent option lists from a static catalogue
// over net/http, in the shapes the engine's dependent-option resolver reads.
//
// Each route answers GET and HEAD for one controlling field. The route's
// trigger parameter selects a list from the catalogue; empty or unknown values
// yield an empty list. Registering a route returns the dynamicOptions block a
// dependent field needs to reach it. Catalogues can be declared in Go or
// loaded from YAML, which makes the package suitable for development servers
// and tests.
package optionsource
