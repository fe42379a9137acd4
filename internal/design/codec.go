// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// Decode reads a stored configuration leniently. Each top-level group and
// each section is decoded on its own, so one malformed value only loses
// that value. Returns nil for empty input, JSON null, or anything that is
// not a JSON object.
func Decode(raw []byte) *PartialConfiguration {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		if err != nil {
			slog.Debug("stored design is not an object", "error", err)
		}
		return nil
	}

	p := &PartialConfiguration{}
	if v, ok := top["template"]; ok {
		if err := json.Unmarshal(v, &p.Template); err != nil {
			slog.Debug("stored design template unreadable", "error", err)
		}
	}
	// Type mismatches on single slots leave the remaining slots decoded.
	if v, ok := top["colors"]; ok {
		if err := json.Unmarshal(v, &p.Colors); err != nil {
			slog.Debug("stored design colors partially unreadable", "error", err)
		}
	}
	if v, ok := top["fonts"]; ok {
		if err := json.Unmarshal(v, &p.Fonts); err != nil {
			slog.Debug("stored design fonts partially unreadable", "error", err)
		}
	}
	if v, ok := top["sections"]; ok {
		p.Sections = decodeSections(v)
	}
	return p
}

func decodeSections(raw json.RawMessage) map[string]PartialSection {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Debug("stored design sections unreadable", "error", err)
		return nil
	}
	sections := make(map[string]PartialSection, len(entries))
	for key, v := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(v, &fields); err != nil || fields == nil {
			slog.Debug("stored section unreadable", "section", key, "error", err)
			continue
		}
		sections[key] = decodeSection(key, fields)
	}
	return sections
}

// decodeSection sets a sub-field only when its value has the right type.
// A mistyped sub-field stays nil, which makes the setting incomplete.
func decodeSection(key string, fields map[string]json.RawMessage) PartialSection {
	var s PartialSection
	if v, ok := fields["enabled"]; ok {
		var enabled bool
		if err := json.Unmarshal(v, &enabled); err != nil || isNull(v) {
			slog.Debug("stored section enabled unreadable", "section", key, "error", err)
		} else {
			s.Enabled = &enabled
		}
	}
	if v, ok := fields["order"]; ok {
		var order int
		if err := json.Unmarshal(v, &order); err != nil || isNull(v) {
			slog.Debug("stored section order unreadable", "section", key, "error", err)
		} else {
			s.Order = &order
		}
	}
	return s
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
