package blog

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

// scanState is the parser position: outside any section, or inside one.
type scanState int

const (
	stateOutside scanState = iota
	stateInSection
)

var (
	reImageMarker = regexp.MustCompile(`(?i)\[image:\s*([^\]]+)\]`)
	reStepPrefix  = regexp.MustCompile(`^\d+[.)]\s+`)
)

// sectionAliases maps normalized heading text to a section id. Headings are
// normalized by lowercasing and stripping everything but letters and digits,
// so "How It Works", "how-it-works:" and "## HOW IT WORKS" all match.
var sectionAliases = map[string]string{
	"introduction":             SectionWhatIs,
	"intro":                    SectionWhatIs,
	"whatis":                   SectionWhatIs,
	"benefits":                 SectionBenefits,
	"keybenefits":              SectionBenefits,
	"types":                    SectionTypes,
	"howitworks":               SectionHowItWorks,
	"steps":                    SectionHowItWorks,
	"usecases":                 SectionUseCases,
	"brandpromotion":           SectionBrandPromotion,
	"aboutthebrand":            SectionBrandPromotion,
	"faq":                      SectionFAQs,
	"faqs":                     SectionFAQs,
	"frequentlyaskedquestions": SectionFAQs,
	"conclusion":               SectionConclusion,
	"finalthoughts":            SectionConclusion,
}

// occurrence accumulates the body of one section occurrence. It is only
// committed to the post when the occurrence closes, so an empty duplicate
// heading never clobbers earlier non-empty content.
type occurrence struct {
	id       string
	lines    []string
	items    []Item
	qas      []QA
	pendingQ string
	bullets  []string // brand promotion only
	brand    string
	cta      string
	images   []ImageRef
	imageSeq int
}

// Parse converts raw draft text into a Post. It is total over any input:
// unrecognized or missing sections degrade to empty defaults, never an
// error, since a partially written draft is a normal input.
func Parse(document string) Post {
	p := Post{}
	state := stateOutside
	var cur *occurrence

	commit := func() {
		if cur != nil {
			commitOccurrence(&p, cur)
			cur = nil
		}
	}

	for _, raw := range strings.Split(document, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		// Section heading?
		if id, ok := matchSectionHeading(trimmed); ok {
			commit()
			cur = &occurrence{id: id}
			state = stateInSection
			continue
		}

		// Metadata lines win over body text in any state.
		if consumeMetadata(&p, trimmed) {
			continue
		}

		if trimmed == "" {
			if state == stateInSection && len(cur.lines) > 0 && cur.lines[len(cur.lines)-1] != "" {
				cur.lines = append(cur.lines, "")
			}
			continue
		}

		if state != stateInSection {
			// Text before the first heading is ignored; drafts often open
			// with notes that belong to no section.
			continue
		}

		cur.consumeLine(trimmed)
	}
	commit()

	if p.Slug == "" && p.H1Title != "" {
		p.Slug = Slugify(p.H1Title)
	}
	return p
}

// Merge layers next over base, preserving base's keywords when the base has
// KeywordLocked set. Scalars and section slots from next win only when
// non-empty; base content is never lost to emptiness.
func Merge(base, next Post) Post {
	out := base

	if !base.KeywordLocked {
		if next.PrimaryKeyword != "" {
			out.PrimaryKeyword = next.PrimaryKeyword
		}
		if len(next.SecondaryKeywords) > 0 {
			out.SecondaryKeywords = next.SecondaryKeywords
		}
		out.KeywordLocked = base.KeywordLocked || next.KeywordLocked
	}

	if next.H1Title != "" {
		out.H1Title = next.H1Title
	}
	if next.FeaturedImage.FileRef != "" {
		out.FeaturedImage.FileRef = next.FeaturedImage.FileRef
	}
	if next.FeaturedImage.Alt != "" {
		out.FeaturedImage.Alt = next.FeaturedImage.Alt
	}
	if next.MetaDescription != "" {
		out.MetaDescription = next.MetaDescription
	}
	if next.Slug != "" {
		out.Slug = next.Slug
	}

	if !next.Sections.WhatIs.isEmpty() {
		out.Sections.WhatIs = next.Sections.WhatIs
	}
	if !next.Sections.Benefits.isEmpty() {
		out.Sections.Benefits = next.Sections.Benefits
	}
	if !next.Sections.Types.isEmpty() {
		out.Sections.Types = next.Sections.Types
	}
	if !next.Sections.HowItWorks.isEmpty() {
		out.Sections.HowItWorks = next.Sections.HowItWorks
	}
	if !next.Sections.UseCases.isEmpty() {
		out.Sections.UseCases = next.Sections.UseCases
	}
	if !next.Sections.BrandPromotion.isEmpty() {
		out.Sections.BrandPromotion = next.Sections.BrandPromotion
	}
	if !next.Sections.FAQs.isEmpty() {
		out.Sections.FAQs = next.Sections.FAQs
	}
	if !next.Sections.Conclusion.isEmpty() {
		out.Sections.Conclusion = next.Sections.Conclusion
	}
	return out
}

// Slugify normalizes a title into a URL-safe slug.
func Slugify(s string) string {
	out, err := slug.Normalize(s)
	if err != nil {
		return ""
	}
	return out
}

// matchSectionHeading reports whether a line is one of the eight section
// headings. Leading markdown hash marks are ignored so "## Benefits" and
// "Benefits" both match.
func matchSectionHeading(line string) (string, bool) {
	stripped := strings.TrimLeft(line, "#")
	id, ok := sectionAliases[normalizeHeading(stripped)]
	return id, ok
}

// normalizeHeading lowercases and drops everything but letters and digits.
func normalizeHeading(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// consumeMetadata handles keyword-bearing and front-matter style lines.
// Returns true if the line was recognized and consumed.
func consumeMetadata(p *Post, line string) bool {
	if v, ok := metaValue(line, "Primary Keyword"); ok {
		p.PrimaryKeyword = strings.TrimSpace(v)
		return true
	}
	if v, ok := metaValue(line, "Secondary Keywords"); ok {
		p.SecondaryKeywords = splitKeywords(v)
		return true
	}
	if v, ok := metaValue(line, "Title"); ok {
		if strings.TrimSpace(v) != "" {
			p.H1Title = strings.TrimSpace(v)
		}
		return true
	}
	if strings.HasPrefix(line, "# ") {
		if t := strings.TrimSpace(line[2:]); t != "" {
			p.H1Title = t
		}
		return true
	}
	if v, ok := metaValue(line, "Meta Description"); ok {
		p.MetaDescription = strings.TrimSpace(v)
		return true
	}
	if v, ok := metaValue(line, "Slug"); ok {
		p.Slug = Slugify(v)
		return true
	}
	if v, ok := metaValue(line, "Featured Image Alt"); ok {
		p.FeaturedImage.Alt = strings.TrimSpace(v)
		return true
	}
	if v, ok := metaValue(line, "Featured Image"); ok {
		p.FeaturedImage.FileRef = strings.TrimSpace(v)
		return true
	}
	if v, ok := metaValue(line, "Lock Keywords"); ok {
		p.KeywordLocked = parseBool(v)
		return true
	}
	return false
}

// metaValue matches "<key>: <value>" case-insensitively.
func metaValue(line, key string) (string, bool) {
	if len(line) <= len(key) {
		return "", false
	}
	if !strings.EqualFold(line[:len(key)], key) {
		return "", false
	}
	rest := strings.TrimSpace(line[len(key):])
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return strings.TrimSpace(rest[1:]), true
}

func splitKeywords(v string) []string {
	parts := strings.Split(v, ",")
	var out []string
	for _, kw := range parts {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1", "on":
		return true
	}
	return false
}

// consumeLine classifies one body line of the current section occurrence.
func (o *occurrence) consumeLine(line string) {
	line = o.extractImages(line)
	if line == "" {
		return
	}

	switch o.id {
	case SectionFAQs:
		if v, ok := metaValue(line, "Q"); ok {
			o.flushPendingQ()
			o.pendingQ = v
			return
		}
		if v, ok := metaValue(line, "A"); ok {
			if o.pendingQ != "" {
				o.qas = append(o.qas, QA{Question: o.pendingQ, Answer: v})
				o.pendingQ = ""
			}
			return
		}
		o.lines = append(o.lines, line)

	case SectionBrandPromotion:
		if v, ok := metaValue(line, "Brand"); ok {
			o.brand = v
			return
		}
		if v, ok := metaValue(line, "CTA"); ok {
			o.cta = v
			return
		}
		if v, ok := metaValue(line, "Call to Action"); ok {
			o.cta = v
			return
		}
		if v, ok := bulletText(line); ok {
			o.bullets = append(o.bullets, v)
			return
		}
		o.lines = append(o.lines, line)

	case SectionBenefits, SectionTypes, SectionUseCases, SectionHowItWorks:
		if v, ok := bulletText(line); ok {
			o.items = append(o.items, splitItem(v))
			return
		}
		if o.id == SectionHowItWorks && reStepPrefix.MatchString(line) {
			o.items = append(o.items, splitItem(reStepPrefix.ReplaceAllString(line, "")))
			return
		}
		o.lines = append(o.lines, line)

	default:
		o.lines = append(o.lines, line)
	}
}

// extractImages pulls [image: keyword] markers out of a line, recording an
// ImageRef per marker with its sequential position within the section, and
// returns the line with the markers removed.
func (o *occurrence) extractImages(line string) string {
	out := reImageMarker.ReplaceAllStringFunc(line, func(m string) string {
		sub := reImageMarker.FindStringSubmatch(m)
		kw := strings.TrimSpace(sub[1])
		if kw != "" {
			o.imageSeq++
			o.images = append(o.images, ImageRef{
				Keyword:   kw,
				SectionID: o.id,
				Position:  o.imageSeq,
			})
		}
		return ""
	})
	return strings.TrimSpace(out)
}

func (o *occurrence) flushPendingQ() {
	// A question with no answer still surfaces as an item so written
	// content is never silently dropped.
	if o.pendingQ != "" {
		o.qas = append(o.qas, QA{Question: o.pendingQ})
		o.pendingQ = ""
	}
}

// bulletText strips a leading bullet glyph. Returns false for non-bullets.
func bulletText(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}

// splitItem separates "Title — text", "Title - text" or "Title: text" into a
// titled item; a bare line becomes a title-only item.
func splitItem(v string) Item {
	for _, sep := range []string{" — ", " – ", " - ", ": "} {
		if i := strings.Index(v, sep); i > 0 {
			return Item{
				Title: strings.TrimSpace(v[:i]),
				Text:  strings.TrimSpace(v[i+len(sep):]),
			}
		}
	}
	return Item{Title: v}
}

func joinLines(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// commitOccurrence writes a closed occurrence into its post slot. Later
// occurrences of the same section win only when non-empty (last-writer), so
// the parser never loses written content to an empty duplicate.
func commitOccurrence(p *Post, o *occurrence) {
	o.flushPendingQ()
	text := joinLines(o.lines)

	switch o.id {
	case SectionWhatIs, SectionConclusion:
		sec := TextSection{Text: text, Images: o.images}
		if sec.isEmpty() {
			return
		}
		if o.id == SectionWhatIs {
			p.Sections.WhatIs = sec
		} else {
			p.Sections.Conclusion = sec
		}

	case SectionBenefits, SectionTypes, SectionHowItWorks, SectionUseCases:
		sec := ListSection{Intro: text, Items: o.items, Images: o.images}
		if sec.isEmpty() {
			return
		}
		switch o.id {
		case SectionBenefits:
			p.Sections.Benefits = sec
		case SectionTypes:
			p.Sections.Types = sec
		case SectionHowItWorks:
			p.Sections.HowItWorks = sec
		case SectionUseCases:
			p.Sections.UseCases = sec
		}

	case SectionBrandPromotion:
		sec := PromoSection{
			BrandName:    o.brand,
			Bullets:      o.bullets,
			CallToAction: o.cta,
		}
		if sec.CallToAction == "" && text != "" {
			sec.CallToAction = text
		}
		sec.Enabled = sec.BrandName != "" || len(sec.Bullets) > 0 || sec.CallToAction != ""
		if !sec.Enabled {
			return
		}
		p.Sections.BrandPromotion = sec

	case SectionFAQs:
		sec := FAQSection{Intro: text, Items: o.qas, Images: o.images}
		if sec.isEmpty() {
			return
		}
		p.Sections.FAQs = sec
	}
}
