package blog

import (
	"bytes"
	"encoding/json"
	"html"
	"strings"
)

// Output formats.
const (
	FormatFragment = "fragment"
	FormatDocument = "document"
)

// Options configures one render pass. ImageURLs maps image keywords to
// hosted URLs obtained from the image host; keywords without a URL drive the
// two-phase upload protocol (see Result.RequiresImageUpload).
type Options struct {
	IncludeSchema    bool              `json:"includeSchema"`
	IncludeImages    bool              `json:"includeImages"`
	BlogTitle        string            `json:"blogTitle,omitempty"`
	BlogDate         string            `json:"blogDate,omitempty"`
	AuthorName       string            `json:"authorName,omitempty"`
	ImageURLs        map[string]string `json:"imageUrls,omitempty"`
	FeaturedImageURL string            `json:"featuredImageUrl,omitempty"`
	Format           string            `json:"format,omitempty"`
}

// SectionInfo summarizes one rendered section for the response payload.
type SectionInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Words     int    `json:"words"`
	Completed bool   `json:"completed"`
}

// Metadata carries the computed stats and the validator's verdict.
type Metadata struct {
	TotalWords        int            `json:"totalWords"`
	TotalSections     int            `json:"totalSections"`
	SectionWordCounts map[string]int `json:"sectionWordCounts"`
	IsValid           bool           `json:"isValid"`
	MissingRequired   []string       `json:"missingRequired"`
	Warnings          []string       `json:"warnings"`
}

// Result is the render outcome. When RequiresImageUpload is set, Images
// lists the references that had no URL; the caller uploads them and renders
// again with the returned URLs in Options.ImageURLs.
type Result struct {
	HTML                string        `json:"html"`
	Images              []ImageRef    `json:"images,omitempty"`
	RequiresImageUpload bool          `json:"requiresImageUpload"`
	Sections            []SectionInfo `json:"sections"`
	Metadata            Metadata      `json:"metadata"`
}

// requiredSections lack-of-content in these slots is reported in
// Metadata.MissingRequired. Only the introduction blocks publishing; the
// other slots are advisory (validator warnings).
var requiredSections = []string{SectionWhatIs}

// renderer accumulates output for a single Render call.
type renderer struct {
	buf  bytes.Buffer
	post Post
	opts Options

	missing  []ImageRef
	sections []SectionInfo
	words    map[string]int
}

// Render walks the validated post in canonical section order and emits HTML.
// Identical (post, validation, opts) always yields byte-identical output:
// maps are only read through sorted or fixed-order access and no clock or
// randomness is consulted.
func Render(post Post, validation ValidationState, opts Options) Result {
	r := &renderer{post: post, opts: opts, words: make(map[string]int)}

	if opts.Format == FormatDocument {
		r.openDocument()
	}
	r.renderHeader()
	for _, id := range SectionIDs() {
		r.renderSection(id, validation)
	}
	if opts.IncludeSchema {
		r.renderSchema()
	}
	if opts.Format == FormatDocument {
		r.buf.WriteString("</article></body></html>")
	} else {
		r.buf.WriteString("</article>")
	}

	total := 0
	for _, n := range r.words {
		total += n
	}
	var missingRequired []string
	for _, id := range requiredSections {
		if !post.HasContent(id) {
			missingRequired = append(missingRequired, id)
		}
	}

	return Result{
		HTML:                r.buf.String(),
		Images:              r.missing,
		RequiresImageUpload: len(r.missing) > 0,
		Sections:            r.sections,
		Metadata: Metadata{
			TotalWords:        total,
			TotalSections:     len(r.sections),
			SectionWordCounts: r.words,
			IsValid:           validation.IsValid(),
			MissingRequired:   missingRequired,
			Warnings:          validation.Warnings,
		},
	}
}

func (r *renderer) openDocument() {
	title := r.opts.BlogTitle
	if title == "" {
		title = r.post.H1Title
	}
	r.buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/>")
	r.buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
	r.buf.WriteString("<title>" + html.EscapeString(title) + "</title>")
	if r.post.MetaDescription != "" {
		r.buf.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(r.post.MetaDescription) + "\"/>")
	}
	if kw := r.keywordList(); kw != "" {
		r.buf.WriteString("<meta name=\"keywords\" content=\"" + html.EscapeString(kw) + "\"/>")
	}
	r.buf.WriteString("</head><body>")
}

func (r *renderer) keywordList() string {
	var all []string
	if r.post.PrimaryKeyword != "" {
		all = append(all, r.post.PrimaryKeyword)
	}
	all = append(all, r.post.SecondaryKeywords...)
	return strings.Join(all, ", ")
}

func (r *renderer) renderHeader() {
	r.buf.WriteString("<article>")
	if r.post.H1Title != "" {
		r.buf.WriteString("<h1>" + html.EscapeString(r.post.H1Title) + "</h1>")
	}
	if r.opts.AuthorName != "" || r.opts.BlogDate != "" {
		r.buf.WriteString("<p class=\"byline\">")
		if r.opts.AuthorName != "" {
			r.buf.WriteString("By " + html.EscapeString(r.opts.AuthorName))
			if r.opts.BlogDate != "" {
				r.buf.WriteString(" · ")
			}
		}
		r.buf.WriteString(html.EscapeString(r.opts.BlogDate))
		r.buf.WriteString("</p>")
	}
	r.renderFeaturedImage()
}

func (r *renderer) renderFeaturedImage() {
	fi := r.post.FeaturedImage
	url := r.opts.FeaturedImageURL
	if url == "" && fi.FileRef != "" {
		url = r.opts.ImageURLs[fi.FileRef]
	}
	switch {
	case url != "":
		r.buf.WriteString("<img class=\"featured\" src=\"" + html.EscapeString(url) +
			"\" alt=\"" + html.EscapeString(fi.Alt) + "\"/>")
	case r.opts.IncludeImages && fi.FileRef != "":
		r.missing = append(r.missing, ImageRef{Keyword: fi.FileRef, SectionID: "featured"})
	}
}

func (r *renderer) renderSection(id string, validation ValidationState) {
	if !r.post.HasContent(id) {
		return
	}

	label := r.sectionLabel(id)
	words := 0

	r.buf.WriteString("<section id=\"" + sectionAnchor(id) + "\">")
	r.buf.WriteString("<h2>" + html.EscapeString(label) + "</h2>")

	switch id {
	case SectionWhatIs:
		words += r.renderText(r.post.Sections.WhatIs)
	case SectionConclusion:
		words += r.renderText(r.post.Sections.Conclusion)
	case SectionBenefits:
		words += r.renderList(r.post.Sections.Benefits, "ul")
	case SectionTypes:
		words += r.renderList(r.post.Sections.Types, "ul")
	case SectionHowItWorks:
		words += r.renderList(r.post.Sections.HowItWorks, "ol")
	case SectionUseCases:
		words += r.renderList(r.post.Sections.UseCases, "ul")
	case SectionBrandPromotion:
		words += r.renderPromo(r.post.Sections.BrandPromotion)
	case SectionFAQs:
		words += r.renderFAQs(r.post.Sections.FAQs)
	}

	r.buf.WriteString("</section>")

	r.words[id] = words
	r.sections = append(r.sections, SectionInfo{
		ID:        id,
		Label:     label,
		Words:     words,
		Completed: validation.IsCompleted(id),
	})
}

func (r *renderer) sectionLabel(id string) string {
	switch id {
	case SectionWhatIs:
		if r.post.PrimaryKeyword != "" {
			return "What Is " + titleCase(r.post.PrimaryKeyword) + "?"
		}
		return "Introduction"
	case SectionBenefits:
		return "Benefits"
	case SectionTypes:
		return "Types"
	case SectionHowItWorks:
		return "How It Works"
	case SectionUseCases:
		return "Use Cases"
	case SectionBrandPromotion:
		if b := r.post.Sections.BrandPromotion.BrandName; b != "" {
			return "Why Choose " + b + "?"
		}
		return "About the Brand"
	case SectionFAQs:
		return "Frequently Asked Questions"
	case SectionConclusion:
		return "Conclusion"
	}
	return id
}

// renderText emits blank-line separated paragraphs, then the section's
// images. Returns the word count of the emitted text.
func (r *renderer) renderText(sec TextSection) int {
	words := r.writeParagraphs(sec.Text)
	r.renderImages(sec.Images)
	return words
}

func (r *renderer) renderList(sec ListSection, tag string) int {
	words := r.writeParagraphs(sec.Intro)
	if len(sec.Items) > 0 {
		r.buf.WriteString("<" + tag + ">")
		for _, it := range sec.Items {
			r.buf.WriteString("<li>")
			if it.Text != "" {
				r.buf.WriteString("<strong>" + html.EscapeString(it.Title) + "</strong> " + html.EscapeString(it.Text))
				words += wordCount(it.Title) + wordCount(it.Text)
			} else {
				r.buf.WriteString(html.EscapeString(it.Title))
				words += wordCount(it.Title)
			}
			r.buf.WriteString("</li>")
		}
		r.buf.WriteString("</" + tag + ">")
	}
	r.renderImages(sec.Images)
	return words
}

func (r *renderer) renderPromo(sec PromoSection) int {
	words := 0
	r.buf.WriteString("<div class=\"brand-promotion\">")
	if len(sec.Bullets) > 0 {
		r.buf.WriteString("<ul>")
		for _, b := range sec.Bullets {
			r.buf.WriteString("<li>" + html.EscapeString(b) + "</li>")
			words += wordCount(b)
		}
		r.buf.WriteString("</ul>")
	}
	if sec.CallToAction != "" {
		r.buf.WriteString("<p class=\"cta\">" + html.EscapeString(sec.CallToAction) + "</p>")
		words += wordCount(sec.CallToAction)
	}
	r.buf.WriteString("</div>")
	return words
}

func (r *renderer) renderFAQs(sec FAQSection) int {
	words := r.writeParagraphs(sec.Intro)
	for _, qa := range sec.Items {
		r.buf.WriteString("<div class=\"faq-item\"><h3>" + html.EscapeString(qa.Question) + "</h3>")
		if qa.Answer != "" {
			r.buf.WriteString("<p>" + html.EscapeString(qa.Answer) + "</p>")
		}
		r.buf.WriteString("</div>")
		words += wordCount(qa.Question) + wordCount(qa.Answer)
	}
	r.renderImages(sec.Images)
	return words
}

// writeParagraphs splits text on blank lines into <p> blocks. Single
// newlines within a paragraph collapse to spaces. Returns the word count.
func (r *renderer) writeParagraphs(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	words := 0
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(strings.ReplaceAll(para, "\n", " "))
		if para == "" {
			continue
		}
		r.buf.WriteString("<p>" + html.EscapeString(para) + "</p>")
		words += wordCount(para)
	}
	return words
}

// renderImages resolves a section's image references. Resolved references
// become <img> tags; unresolved ones are either surfaced as missing (when
// IncludeImages is set) or left as HTML comment placeholders.
func (r *renderer) renderImages(refs []ImageRef) {
	for _, ref := range refs {
		url := r.opts.ImageURLs[ref.Keyword]
		switch {
		case url != "" && r.opts.IncludeImages:
			r.buf.WriteString("<img src=\"" + html.EscapeString(url) +
				"\" alt=\"" + html.EscapeString(ref.Keyword) + "\"/>")
		case r.opts.IncludeImages:
			r.missing = append(r.missing, ref)
		default:
			r.buf.WriteString("<!-- image: " + html.EscapeString(ref.Keyword) + " -->")
		}
	}
}

// renderSchema emits schema.org structured data: a BlogPosting entity and,
// when FAQ items exist, a FAQPage entity. Built as maps and marshalled with
// encoding/json, which sorts keys, so output stays deterministic.
func (r *renderer) renderSchema() {
	posting := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "BlogPosting",
		"headline": r.post.H1Title,
	}
	if r.post.MetaDescription != "" {
		posting["description"] = r.post.MetaDescription
	}
	if r.opts.BlogDate != "" {
		posting["datePublished"] = r.opts.BlogDate
	}
	if r.opts.AuthorName != "" {
		posting["author"] = map[string]string{
			"@type": "Person",
			"name":  r.opts.AuthorName,
		}
	}
	if kw := r.keywordList(); kw != "" {
		posting["keywords"] = kw
	}
	r.writeJSONLD(posting)

	if len(r.post.Sections.FAQs.Items) == 0 {
		return
	}
	entities := make([]map[string]interface{}, 0, len(r.post.Sections.FAQs.Items))
	for _, qa := range r.post.Sections.FAQs.Items {
		entities = append(entities, map[string]interface{}{
			"@type": "Question",
			"name":  qa.Question,
			"acceptedAnswer": map[string]string{
				"@type": "Answer",
				"text":  qa.Answer,
			},
		})
	}
	r.writeJSONLD(map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": entities,
	})
}

func (r *renderer) writeJSONLD(data map[string]interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	r.buf.WriteString("<script type=\"application/ld+json\">")
	r.buf.Write(b)
	r.buf.WriteString("</script>")
}

// sectionAnchors are the element ids used in the emitted HTML.
var sectionAnchors = map[string]string{
	SectionWhatIs:         "what-is",
	SectionBenefits:       "benefits",
	SectionTypes:          "types",
	SectionHowItWorks:     "how-it-works",
	SectionUseCases:       "use-cases",
	SectionBrandPromotion: "brand-promotion",
	SectionFAQs:           "faqs",
	SectionConclusion:     "conclusion",
}

func sectionAnchor(id string) string {
	return sectionAnchors[id]
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
