// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import "log/slog"

// Resolve merges a stored configuration over the defaults of its variant
// and always returns a complete configuration.
//
// A nil input or one without a template yields the minimalist default
// unchanged. An unknown template falls back to minimalist and the stored
// fields are merged on top of it. Colors and fonts are merged per slot
// (empty means unset). Sections are taken whole from the stored value only
// when both enabled and order are present; unknown section keys are dropped.
func Resolve(stored *PartialConfiguration) Configuration {
	if stored == nil || stored.Template == "" {
		return Default(Minimalist)
	}

	base, ok := Lookup(Variant(stored.Template))
	if !ok {
		slog.Debug("unknown template variant, using minimalist", "template", stored.Template)
		base = Default(Minimalist)
	}

	base.Colors = Palette{
		Primary:    pick(stored.Colors.Primary, base.Colors.Primary),
		Secondary:  pick(stored.Colors.Secondary, base.Colors.Secondary),
		Accent:     pick(stored.Colors.Accent, base.Colors.Accent),
		Background: pick(stored.Colors.Background, base.Colors.Background),
		Text:       pick(stored.Colors.Text, base.Colors.Text),
	}
	base.Fonts = Fonts{
		Heading: pick(stored.Fonts.Heading, base.Fonts.Heading),
		Body:    pick(stored.Fonts.Body, base.Fonts.Body),
	}

	for _, key := range SectionKeys {
		s, ok := stored.Sections[string(key)]
		if !ok {
			continue
		}
		if !s.complete() {
			slog.Debug("incomplete section setting, using default", "section", key)
			continue
		}
		base.Sections[key] = SectionSetting{Enabled: *s.Enabled, Order: *s.Order}
	}

	for key := range stored.Sections {
		if SectionKey(key).Rank() < 0 {
			slog.Debug("ignoring unknown section", "section", key)
		}
	}

	return base
}

func pick(stored, fallback string) string {
	if stored != "" {
		return stored
	}
	return fallback
}
