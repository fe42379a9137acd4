// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"coursely/internal/design"
	"coursely/internal/markdown"
	"coursely/internal/models"
)

// PageData holds everything a layout template can reference. Colors and
// Fonts come from the resolved configuration and are shared by all
// sections; Sections is filled with the rendered fragments before the
// page template runs.
type PageData struct {
	Variant   design.Variant
	Colors    design.Palette
	Fonts     design.Fonts
	Formation FormationView
	Sections  []RenderedSection
	Year      int
}

// RenderedSection is one section fragment in page order.
type RenderedSection struct {
	Key  design.SectionKey
	HTML template.HTML
}

// FormationView is the template-facing projection of FormationContent.
type FormationView struct {
	ID            string
	Title         string
	Pitch         string
	Description   template.HTML // Sanitized Markdown
	CoverImageURL string
	Creator       string
	Price         PriceView
	Benefits      []string
	Modules       []ModuleView
	LessonCount   int
	Duration      string
	Testimonials  []TestimonialView
	FAQ           []FAQItem
}

// PriceView is a display-ready price. A zero price renders as "0" and
// sets Free; it is never treated as missing.
type PriceView struct {
	Amount   string
	Currency string
	Free     bool
}

// ModuleView is a curriculum chapter.
type ModuleView struct {
	Title   string
	Lessons []LessonView
}

// LessonView is a curriculum entry.
type LessonView struct {
	Title    string
	Summary  string
	Duration string
}

// TestimonialView is a quote with a pre-rendered star rating.
type TestimonialView struct {
	AuthorName  string
	AuthorTitle string
	Quote       string
	Stars       string
}

// FAQItem is a question and its answer.
type FAQItem struct {
	Question string
	Answer   string
}

// defaultCurrency applies when a formation has no currency set.
const defaultCurrency = "EUR"

// newFormationView projects content into the view used by every layout.
func newFormationView(content *models.FormationContent) FormationView {
	v := FormationView{
		ID:            content.ID.String(),
		Title:         content.Title,
		Pitch:         content.Pitch,
		CoverImageURL: content.CoverImageURL,
		Creator:       content.Creator.DisplayName,
		Price:         newPriceView(content.PriceCents, content.Currency),
		LessonCount:   content.LessonCount(),
		Duration:      formatDuration(content.TotalDuration()),
	}

	if strings.TrimSpace(content.Description) != "" {
		html, err := markdown.ToHTML(content.Description)
		if err != nil {
			slog.Warn("description markdown conversion failed, using plain text",
				"formation_id", content.ID, "error", err)
			html = template.HTMLEscapeString(content.Description)
		}
		v.Description = template.HTML(html)
	}

	for _, m := range content.Modules {
		mv := ModuleView{Title: m.Title}
		for _, l := range m.Lessons {
			mv.Lessons = append(mv.Lessons, LessonView{
				Title:    l.Title,
				Summary:  l.Summary,
				Duration: formatDuration(time.Duration(l.DurationSeconds) * time.Second),
			})
		}
		v.Modules = append(v.Modules, mv)
		if m.Title != "" {
			v.Benefits = append(v.Benefits, m.Title)
		}
	}

	for _, t := range content.Testimonials {
		if strings.TrimSpace(t.Quote) == "" {
			continue
		}
		v.Testimonials = append(v.Testimonials, TestimonialView{
			AuthorName:  t.AuthorName,
			AuthorTitle: t.AuthorTitle,
			Quote:       t.Quote,
			Stars:       stars(t.Rating),
		})
	}

	v.FAQ = buildFAQ(v)
	return v
}

// newPriceView formats integer cents. Whole amounts drop the decimals.
func newPriceView(cents int64, currency string) PriceView {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		cur = defaultCurrency
	}
	if cents <= 0 {
		return PriceView{Amount: "0", Currency: cur, Free: true}
	}
	amount := fmt.Sprintf("%d", cents/100)
	if cents%100 != 0 {
		amount = fmt.Sprintf("%d.%02d", cents/100, cents%100)
	}
	return PriceView{Amount: amount, Currency: cur}
}

// formatDuration renders "45 min" or "2h 05min". Zero renders empty.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	minutes := int((d + 30*time.Second) / time.Minute)
	if minutes == 0 {
		minutes = 1
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dmin", minutes/60, minutes%60)
}

// stars renders a 1..5 rating; out-of-range ratings are clamped and zero
// means unrated.
func stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// buildFAQ derives answers from the formation itself. The record store
// keeps no dedicated FAQ entries.
func buildFAQ(v FormationView) []FAQItem {
	var items []FAQItem

	if v.Price.Free {
		items = append(items, FAQItem{
			Question: "How much does it cost?",
			Answer:   "Nothing. This formation is free.",
		})
	} else {
		items = append(items, FAQItem{
			Question: "How much does it cost?",
			Answer:   fmt.Sprintf("A single payment of %s %s, no subscription.", v.Price.Amount, v.Price.Currency),
		})
	}

	if v.LessonCount > 0 {
		answer := fmt.Sprintf("You get lifetime access to %s", plural(v.LessonCount, "lesson", "lessons"))
		if v.Duration != "" {
			answer += fmt.Sprintf(" (%s of content)", v.Duration)
		}
		items = append(items, FAQItem{Question: "What do I get?", Answer: answer + "."})
	}

	if v.Creator != "" {
		items = append(items, FAQItem{
			Question: "Who teaches this formation?",
			Answer:   v.Creator + " created and teaches every lesson.",
		})
	}
	return items
}
