// Package blog implements the document pipeline: parsing loosely structured
// draft text into a fixed section schema, validating the result against
// SEO/content rules, and rendering final HTML with image placeholders
// resolved to hosted URLs. All three stages are pure functions over their
// inputs; nothing here performs I/O.
package blog

import "strings"

// Section ids shared by the parser, validator and renderer.
const (
	SectionWhatIs         = "whatIs"
	SectionBenefits       = "benefits"
	SectionTypes          = "types"
	SectionHowItWorks     = "howItWorks"
	SectionUseCases       = "useCases"
	SectionBrandPromotion = "brandPromotion"
	SectionFAQs           = "faqs"
	SectionConclusion     = "conclusion"
)

// sectionOrder is the canonical render order.
var sectionOrder = []string{
	SectionWhatIs,
	SectionBenefits,
	SectionTypes,
	SectionHowItWorks,
	SectionUseCases,
	SectionBrandPromotion,
	SectionFAQs,
	SectionConclusion,
}

// ImageRef marks a spot where an image must be inserted. It is produced by
// the parser from [image: keyword] markers and resolved during rendering by
// looking the keyword up in the caller-supplied URL map.
type ImageRef struct {
	Keyword   string `json:"keyword"`
	SectionID string `json:"sectionId"`
	Position  int    `json:"position,omitempty"`
}

// ImageData is the featured image slot: a file reference bound by the caller
// (upload keyword or filename) plus alt text.
type ImageData struct {
	FileRef string `json:"fileRef,omitempty"`
	Alt     string `json:"alt"`
}

// Item is one titled entry of a list-shaped section.
type Item struct {
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

// QA is one question/answer pair of the FAQ section.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TextSection holds free text plus any image markers found inside it.
type TextSection struct {
	Text   string     `json:"text"`
	Images []ImageRef `json:"images,omitempty"`
}

// ListSection holds an ordered sequence of titled items, optional lead-in
// text, and any image markers found inside it.
type ListSection struct {
	Intro  string     `json:"intro,omitempty"`
	Items  []Item     `json:"items"`
	Images []ImageRef `json:"images,omitempty"`
}

// FAQSection holds ordered question/answer pairs.
type FAQSection struct {
	Intro  string     `json:"intro,omitempty"`
	Items  []QA       `json:"items"`
	Images []ImageRef `json:"images,omitempty"`
}

// PromoSection is the toggle-able brand promotion block.
type PromoSection struct {
	Enabled      bool     `json:"enabled"`
	BrandName    string   `json:"brandName,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
	CallToAction string   `json:"callToAction,omitempty"`
}

// Sections is the fixed shape of the eight content slots. Every slot is
// always present; an empty slot is an empty value, never a missing key, so
// the validator and renderer can assume total coverage.
type Sections struct {
	WhatIs         TextSection  `json:"whatIs"`
	Benefits       ListSection  `json:"benefits"`
	Types          ListSection  `json:"types"`
	HowItWorks     ListSection  `json:"howItWorks"`
	UseCases       ListSection  `json:"useCases"`
	BrandPromotion PromoSection `json:"brandPromotion"`
	FAQs           FAQSection   `json:"faqs"`
	Conclusion     TextSection  `json:"conclusion"`
}

// Post is the canonical structured representation of one article. It is
// built once per parse, treated as immutable by validation and rendering,
// and never persisted.
type Post struct {
	PrimaryKeyword    string    `json:"primaryKeyword"`
	SecondaryKeywords []string  `json:"secondaryKeywords,omitempty"`
	KeywordLocked     bool      `json:"keywordLocked"`
	H1Title           string    `json:"h1Title"`
	FeaturedImage     ImageData `json:"featuredImage"`
	Sections          Sections  `json:"sections"`
	MetaDescription   string    `json:"metaDescription,omitempty"`
	Slug              string    `json:"slug,omitempty"`
}

func (s TextSection) isEmpty() bool {
	return strings.TrimSpace(s.Text) == "" && len(s.Images) == 0
}

func (s ListSection) isEmpty() bool {
	return len(s.Items) == 0 && strings.TrimSpace(s.Intro) == "" && len(s.Images) == 0
}

func (s FAQSection) isEmpty() bool {
	return len(s.Items) == 0 && strings.TrimSpace(s.Intro) == "" && len(s.Images) == 0
}

func (s PromoSection) isEmpty() bool {
	return !s.Enabled && s.BrandName == "" && len(s.Bullets) == 0 && s.CallToAction == ""
}

// HasContent reports whether the named section slot holds any content.
func (p Post) HasContent(sectionID string) bool {
	switch sectionID {
	case SectionWhatIs:
		return !p.Sections.WhatIs.isEmpty()
	case SectionBenefits:
		return !p.Sections.Benefits.isEmpty()
	case SectionTypes:
		return !p.Sections.Types.isEmpty()
	case SectionHowItWorks:
		return !p.Sections.HowItWorks.isEmpty()
	case SectionUseCases:
		return !p.Sections.UseCases.isEmpty()
	case SectionBrandPromotion:
		return p.Sections.BrandPromotion.Enabled && !p.Sections.BrandPromotion.isEmpty()
	case SectionFAQs:
		return !p.Sections.FAQs.isEmpty()
	case SectionConclusion:
		return !p.Sections.Conclusion.isEmpty()
	}
	return false
}

// SectionIDs returns the eight section ids in canonical render order.
func SectionIDs() []string {
	out := make([]string, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// wordCount tokenizes on whitespace.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
