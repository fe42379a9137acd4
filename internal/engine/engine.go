// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders public sales pages. It picks one of three layouts
// from a fixed table indexed by the configuration's variant, orders the
// enabled sections, and renders each against the formation content using
// the configuration's palette and fonts.
package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"time"

	"coursely/internal/design"
	"coursely/internal/models"
)

//go:embed layouts/*.html
var layoutFS embed.FS

// Page is a rendered sales page.
type Page struct {
	Variant  design.Variant
	Sections []design.SectionKey // sections that produced output, in page order
	HTML     []byte
}

// Engine holds the compiled layouts. It has no mutable state after New,
// so one Engine serves concurrent requests.
type Engine struct {
	layouts []Layout // indexed by design.Variant.Index()
	now     func() time.Time
}

// LayoutFS returns the filesystem layouts are read from. In development
// the templates are read from disk when the source tree is present, so
// edits show up on restart without rebuilding; otherwise the embedded
// copies are used.
func LayoutFS(devMode bool) fs.FS {
	if devMode {
		if _, err := os.Stat("internal/engine/layouts/shared.html"); err == nil {
			return os.DirFS("internal/engine")
		}
	}
	return layoutFS
}

// New compiles every layout from fsys (the embedded layouts when nil).
// It fails if any variant lacks a layout or a layout lacks a section.
func New(fsys fs.FS) (*Engine, error) {
	if fsys == nil {
		fsys = layoutFS
	}

	e := &Engine{
		layouts: make([]Layout, len(design.Variants)),
		now:     time.Now,
	}
	for _, spec := range layoutSpecs {
		l, err := compileLayout(fsys, spec)
		if err != nil {
			return nil, err
		}
		e.layouts[spec.variant.Index()] = l
	}
	for i, l := range e.layouts {
		if l == nil {
			return nil, fmt.Errorf("no layout registered for variant %q", design.Variants[i])
		}
	}

	slog.Debug("sales page layouts compiled", "count", len(e.layouts))
	return e, nil
}

// layoutFor dispatches on the variant. Resolve never produces an unknown
// variant, so reaching the fallback is a bug; it is logged and the
// minimalist layout is used so the page still renders.
func (e *Engine) layoutFor(v design.Variant) Layout {
	if i := v.Index(); i >= 0 {
		return e.layouts[i]
	}
	slog.Error("no layout for variant, rendering minimalist", "variant", v)
	return e.layouts[design.Minimalist.Index()]
}

// Render produces the sales page for a resolved configuration. Sections
// whose content is empty are left out. Errors only come from template
// execution.
func (e *Engine) Render(cfg design.Configuration, content *models.FormationContent) (*Page, error) {
	layout := e.layoutFor(cfg.Template)

	data := &PageData{
		Variant:   layout.Variant(),
		Colors:    cfg.Colors,
		Fonts:     cfg.Fonts,
		Formation: newFormationView(content),
		Year:      e.now().Year(),
	}

	page := &Page{Variant: layout.Variant()}
	for _, key := range OrderSections(cfg.Sections) {
		var buf bytes.Buffer
		if err := layout.RenderSection(&buf, key, data); err != nil {
			return nil, err
		}
		fragment := bytes.TrimSpace(buf.Bytes())
		if len(fragment) == 0 {
			continue
		}
		data.Sections = append(data.Sections, RenderedSection{Key: key, HTML: template.HTML(fragment)})
		page.Sections = append(page.Sections, key)
	}

	var buf bytes.Buffer
	if err := layout.RenderPage(&buf, data); err != nil {
		return nil, err
	}
	page.HTML = buf.Bytes()
	return page, nil
}

// OrderSections returns the enabled sections sorted by order, with ties
// broken by declaration order. Keys outside design.SectionKeys are ignored.
func OrderSections(sections map[design.SectionKey]design.SectionSetting) []design.SectionKey {
	keys := make([]design.SectionKey, 0, len(design.SectionKeys))
	for _, key := range design.SectionKeys {
		if s, ok := sections[key]; ok && s.Enabled {
			keys = append(keys, key)
		}
	}
	// keys starts in declaration order, so a stable sort keeps that order
	// among equal order values.
	sort.SliceStable(keys, func(i, j int) bool {
		return sections[keys[i]].Order < sections[keys[j]].Order
	})
	return keys
}
