// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"unicode"

	"coursely/internal/design"
)

// Layout renders a sales page for one template variant. Sections are
// rendered one at a time so the engine can drop the ones that have no
// content, then the page wraps the surviving fragments.
type Layout interface {
	Variant() design.Variant
	RenderSection(w io.Writer, key design.SectionKey, data *PageData) error
	RenderPage(w io.Writer, data *PageData) error
}

// templateLayout is a Layout backed by a compiled html/template set made
// of the shared section partials plus the variant's own file, which
// defines "page" and may override any section.
type templateLayout struct {
	variant design.Variant
	tmpl    *template.Template
}

func (l *templateLayout) Variant() design.Variant { return l.variant }

func (l *templateLayout) RenderSection(w io.Writer, key design.SectionKey, data *PageData) error {
	if err := l.tmpl.ExecuteTemplate(w, string(key), data); err != nil {
		return fmt.Errorf("execute %s section %s: %w", l.variant, key, err)
	}
	return nil
}

func (l *templateLayout) RenderPage(w io.Writer, data *PageData) error {
	if err := l.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("execute %s page: %w", l.variant, err)
	}
	return nil
}

// layoutSpec describes how to build a variant's layout.
type layoutSpec struct {
	variant design.Variant
	file    string
	funcs   template.FuncMap
}

// layoutSpecs has exactly one entry per design variant.
var layoutSpecs = []layoutSpec{
	{variant: design.Minimalist, file: "layouts/minimalist.html"},
	{variant: design.Bold, file: "layouts/bold.html", funcs: template.FuncMap{
		"shout": strings.ToUpper,
	}},
	{variant: design.Premium, file: "layouts/premium.html", funcs: template.FuncMap{
		"initials": initials,
	}},
}

// sharedFuncs are available to every layout.
var sharedFuncs = template.FuncMap{
	"plural": plural,
}

// compileLayout parses the shared partials and the variant file from fsys.
func compileLayout(fsys fs.FS, spec layoutSpec) (*templateLayout, error) {
	tmpl := template.New(string(spec.variant)).Funcs(sharedFuncs)
	if spec.funcs != nil {
		tmpl = tmpl.Funcs(spec.funcs)
	}
	tmpl, err := tmpl.ParseFS(fsys, "layouts/shared.html", spec.file)
	if err != nil {
		return nil, fmt.Errorf("compile %s layout: %w", spec.variant, err)
	}
	for _, name := range append([]string{"page"}, sectionNames()...) {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("compile %s layout: missing template %q", spec.variant, name)
		}
	}
	return &templateLayout{variant: spec.variant, tmpl: tmpl}, nil
}

func sectionNames() []string {
	names := make([]string, len(design.SectionKeys))
	for i, key := range design.SectionKeys {
		names[i] = string(key)
	}
	return names
}

// plural formats a count with the singular or plural noun.
func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// initials returns up to two uppercase initials of a name.
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
