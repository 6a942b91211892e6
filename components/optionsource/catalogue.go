package optionsource

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/model"
)

// RouteConfig declares one route in a catalogue file.
type RouteConfig struct {
	Path     string              `yaml:"path"`
	Param    string              `yaml:"param"`
	Shape    Shape               `yaml:"shape"`
	FoldCase bool                `yaml:"foldCase"`
	Entries  map[string][]string `yaml:"entries"`
}

// Catalogue is a set of routes.
type Catalogue struct {
	Routes []RouteConfig `yaml:"routes"`
}

// LoadCatalogue parses a YAML catalogue.
func LoadCatalogue(r io.Reader) (Catalogue, error) {
	if r == nil {
		return Catalogue{}, fmt.Errorf("optionsource: missing reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Catalogue{}, fmt.Errorf("optionsource: read catalogue: %w", err)
	}

	var cat Catalogue
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && err != io.EOF {
		return Catalogue{}, fmt.Errorf("optionsource: decode catalogue: %w", err)
	}

	seen := make(map[string]struct{}, len(cat.Routes))
	for i, route := range cat.Routes {
		path := strings.TrimSpace(route.Path)
		if path == "" {
			return Catalogue{}, fmt.Errorf("optionsource: route %d has no path", i)
		}
		if _, dup := seen[path]; dup {
			return Catalogue{}, fmt.Errorf("optionsource: duplicate route %q", path)
		}
		seen[path] = struct{}{}
		switch route.Shape {
		case "", ShapeData, ShapeList:
		default:
			return Catalogue{}, fmt.Errorf("optionsource: route %q: unknown shape %q", path, route.Shape)
		}
	}
	return cat, nil
}

// Components builds one component per declared route.
func (c Catalogue) Components(fns ...OptionFn) []*Component {
	out := make([]*Component, 0, len(c.Routes))
	for _, route := range c.Routes {
		route := route
		routeFns := append([]OptionFn{}, fns...)
		routeFns = append(routeFns,
			WithRoutePath(route.Path),
			WithParam(route.Param),
			WithShape(route.Shape),
			WithFoldCase(route.FoldCase),
			WithEntries(route.Entries),
		)
		out = append(out, New(routeFns...))
	}
	return out
}

// RegisterCatalogue mounts every route of c under basePath on mux and returns
// the field wiring per route, in declaration order.
func RegisterCatalogue(mux Mux, basePath string, c Catalogue, fns ...OptionFn) ([]model.DynamicOptions, error) {
	wiring := make([]model.DynamicOptions, 0, len(c.Routes))
	for _, component := range c.Components(fns...) {
		route, err := component.RegisterRoutes(mux, basePath)
		if err != nil {
			return nil, err
		}
		wiring = append(wiring, route)
	}
	return wiring, nil
}
