package main

import (
	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/loader"
	"causeway-metamodel/internal/spec"
)

// Metamodel is the exported summary of all loaded specifications.
type Metamodel struct {
	Specs []Spec `yaml:"specs"`
}

type Spec struct {
	Class           string   `yaml:"class"`
	LogicalTypeName string   `yaml:"logicalTypeName"`
	Sort            string   `yaml:"sort"`
	Facets          []string `yaml:"facets,omitempty"`
	Embedded        []string `yaml:"embedded,omitempty"`
	Properties      []Member `yaml:"properties,omitempty"`
	Collections     []Member `yaml:"collections,omitempty"`
	Actions         []Action `yaml:"actions,omitempty"`
	EnumConstants   []string `yaml:"enum,omitempty"`
}

type Member struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Declared string   `yaml:"declared,omitempty"`
	Optional bool     `yaml:"optional,omitempty"`
	Facets   []string `yaml:"facets,omitempty"`
}

type Action struct {
	Name       string   `yaml:"name"`
	Returns    string   `yaml:"returns,omitempty"`
	Collection bool     `yaml:"collection,omitempty"`
	Params     []Member `yaml:"params,omitempty"`
	Facets     []string `yaml:"facets,omitempty"`
}

func buildExport(l *loader.Loader) Metamodel {
	var m Metamodel

	for _, s := range l.Snapshot() {
		out := Spec{
			Class:           s.ClassName(),
			LogicalTypeName: s.LogicalTypeName(),
			Sort:            s.BeanSort().String(),
			Facets:          facetNames(s.Facets()),
			Embedded:        s.Embedded(),
		}

		for _, p := range s.Properties() {
			out.Properties = append(out.Properties, Member{
				Name:     p.Name(),
				Type:     p.ElementClassName(),
				Declared: analyze.TypeString(p.DeclaredType()),
				Optional: !p.IsMandatory(),
				Facets:   facetNames(p.Facets()),
			})
		}

		for _, c := range s.Collections() {
			out.Collections = append(out.Collections, Member{
				Name:     c.Name(),
				Type:     c.ElementClassName(),
				Declared: analyze.TypeString(c.DeclaredType()),
				Facets:   facetNames(c.Facets()),
			})
		}

		for _, a := range s.Actions() {
			action := Action{
				Name:       a.Name(),
				Returns:    a.ElementClassName(),
				Collection: !a.IsScalar(),
				Facets:     facetNames(a.Facets()),
			}

			for _, p := range a.Parameters() {
				action.Params = append(action.Params, Member{
					Name:     p.Name(),
					Type:     p.ElementClassName(),
					Declared: analyze.TypeString(p.DeclaredType()),
					Optional: p.IsScalar() && !p.IsMandatory(),
					Facets:   facetNames(p.Facets()),
				})
			}

			out.Actions = append(out.Actions, action)
		}

		for _, c := range s.EnumConstants() {
			out.EnumConstants = append(out.EnumConstants, c.Name)
		}

		m.Specs = append(m.Specs, out)
	}

	return m
}

func facetNames(h *spec.FacetHolder) []string {
	var out []string

	for _, f := range h.Facets() {
		out = append(out, string(f.FacetType()))
	}

	return out
}
