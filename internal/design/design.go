// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package design holds the sales-page template configuration model: the
// per-variant defaults registry, the merge of a creator's stored (partial)
// configuration over those defaults, and the decoding and validation of
// the persisted JSON shape.
package design

// Variant selects the page layout and its default configuration.
type Variant string

const (
	Minimalist Variant = "minimalist"
	Bold       Variant = "bold"
	Premium    Variant = "premium"
)

// Variants lists every known variant in declaration order.
var Variants = []Variant{Minimalist, Bold, Premium}

// Index returns the position of v in Variants, or -1 if v is unknown.
func (v Variant) Index() int {
	for i, known := range Variants {
		if v == known {
			return i
		}
	}
	return -1
}

// SectionKey names an independently toggleable block of the sales page.
type SectionKey string

const (
	SectionHero         SectionKey = "hero"
	SectionBenefits     SectionKey = "benefits"
	SectionCurriculum   SectionKey = "curriculum"
	SectionTestimonials SectionKey = "testimonials"
	SectionFAQ          SectionKey = "faq"
	SectionPricing      SectionKey = "pricing"
)

// SectionKeys is the fixed, closed set of sections in declaration order.
// The order doubles as the tiebreak when two sections share an order value.
var SectionKeys = []SectionKey{
	SectionHero,
	SectionBenefits,
	SectionCurriculum,
	SectionTestimonials,
	SectionFAQ,
	SectionPricing,
}

// Rank returns the declaration position of k, or -1 if k is unknown.
func (k SectionKey) Rank() int {
	for i, known := range SectionKeys {
		if k == known {
			return i
		}
	}
	return -1
}

// Palette holds the five color slots as hex strings.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Fonts holds the heading and body font-family names.
type Fonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SectionSetting controls whether a section renders and where.
// Order is a relative sort key; gaps and duplicates are allowed.
type SectionSetting struct {
	Enabled bool `json:"enabled"`
	Order   int  `json:"order"`
}

// Configuration is a complete template configuration: every color slot,
// both fonts and all six sections are populated. Only Resolve and the
// registry produce values of this type, and callers treat them as
// immutable snapshots.
type Configuration struct {
	Template Variant                       `json:"template"`
	Colors   Palette                       `json:"colors"`
	Fonts    Fonts                         `json:"fonts"`
	Sections map[SectionKey]SectionSetting `json:"sections"`
}

// Section returns the setting for key.
func (c Configuration) Section(key SectionKey) SectionSetting {
	return c.Sections[key]
}

// Partial converts a complete configuration back to the persisted shape,
// as if the creator had saved every field explicitly.
func (c Configuration) Partial() *PartialConfiguration {
	p := &PartialConfiguration{
		Template: string(c.Template),
		Colors: PartialPalette{
			Primary:    c.Colors.Primary,
			Secondary:  c.Colors.Secondary,
			Accent:     c.Colors.Accent,
			Background: c.Colors.Background,
			Text:       c.Colors.Text,
		},
		Fonts: PartialFonts{
			Heading: c.Fonts.Heading,
			Body:    c.Fonts.Body,
		},
		Sections: make(map[string]PartialSection, len(c.Sections)),
	}
	for key, s := range c.Sections {
		enabled, order := s.Enabled, s.Order
		p.Sections[string(key)] = PartialSection{Enabled: &enabled, Order: &order}
	}
	return p
}

// clone returns a deep copy so registry entries are never shared.
func (c Configuration) clone() Configuration {
	out := c
	out.Sections = make(map[SectionKey]SectionSetting, len(c.Sections))
	for k, v := range c.Sections {
		out.Sections[k] = v
	}
	return out
}

// PartialPalette is the stored form of Palette. Empty strings mean
// "use the default".
type PartialPalette struct {
	Primary    string `json:"primary,omitempty" validate:"omitempty,hexcolor"`
	Secondary  string `json:"secondary,omitempty" validate:"omitempty,hexcolor"`
	Accent     string `json:"accent,omitempty" validate:"omitempty,hexcolor"`
	Background string `json:"background,omitempty" validate:"omitempty,hexcolor"`
	Text       string `json:"text,omitempty" validate:"omitempty,hexcolor"`
}

// PartialFonts is the stored form of Fonts.
type PartialFonts struct {
	Heading string `json:"heading,omitempty" validate:"omitempty,max=64,fontfamily"`
	Body    string `json:"body,omitempty" validate:"omitempty,max=64,fontfamily"`
}

// PartialSection is the stored form of SectionSetting. A setting is only
// honored when both fields are present.
type PartialSection struct {
	Enabled *bool `json:"enabled,omitempty"`
	Order   *int  `json:"order,omitempty" validate:"omitempty,gte=-1000,lte=1000"`
}

// complete reports whether both sub-fields were supplied.
func (s PartialSection) complete() bool {
	return s.Enabled != nil && s.Order != nil
}

// PartialConfiguration is the author-facing form kept in storage. Any
// subset of fields may be absent. Template stays a plain string so values
// written by newer editors survive decoding; Sections is keyed by string
// for the same reason.
type PartialConfiguration struct {
	Template string                    `json:"template,omitempty" validate:"omitempty,oneof=minimalist bold premium"`
	Colors   PartialPalette            `json:"colors,omitempty"`
	Fonts    PartialFonts              `json:"fonts,omitempty"`
	Sections map[string]PartialSection `json:"sections,omitempty" validate:"omitempty,max=32,dive,keys,min=1,max=32,endkeys"`
}
