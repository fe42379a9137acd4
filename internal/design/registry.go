// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

// defaultSections enables every section in declaration order 1..6.
func defaultSections() map[SectionKey]SectionSetting {
	sections := make(map[SectionKey]SectionSetting, len(SectionKeys))
	for i, key := range SectionKeys {
		sections[key] = SectionSetting{Enabled: true, Order: i + 1}
	}
	return sections
}

// registry holds one complete default per variant. It is built once at
// init and never mutated; Default hands out copies.
var registry = map[Variant]Configuration{
	Minimalist: {
		Template: Minimalist,
		Colors: Palette{
			Primary:    "#111827",
			Secondary:  "#6B7280",
			Accent:     "#2563EB",
			Background: "#FFFFFF",
			Text:       "#1F2937",
		},
		Fonts:    Fonts{Heading: "Inter", Body: "Inter"},
		Sections: defaultSections(),
	},
	Bold: {
		Template: Bold,
		Colors: Palette{
			Primary:    "#DC2626",
			Secondary:  "#1F2937",
			Accent:     "#FACC15",
			Background: "#0F0F0F",
			Text:       "#F9FAFB",
		},
		Fonts:    Fonts{Heading: "Archivo Black", Body: "Roboto"},
		Sections: defaultSections(),
	},
	Premium: {
		Template: Premium,
		Colors: Palette{
			Primary:    "#1E1B4B",
			Secondary:  "#A78BFA",
			Accent:     "#D4AF37",
			Background: "#FAF7F2",
			Text:       "#1C1917",
		},
		Fonts:    Fonts{Heading: "Playfair Display", Body: "Lato"},
		Sections: defaultSections(),
	},
}

// Lookup returns the default configuration for v and whether v is known.
func Lookup(v Variant) (Configuration, bool) {
	cfg, ok := registry[v]
	if !ok {
		return Configuration{}, false
	}
	return cfg.clone(), true
}

// Default returns the default configuration for v. Unknown variants get
// the minimalist default.
func Default(v Variant) Configuration {
	if cfg, ok := Lookup(v); ok {
		return cfg
	}
	return registry[Minimalist].clone()
}
