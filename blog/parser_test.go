package blog

import (
	"strings"
	"testing"
)

const fullDraft = `Primary Keyword: eco bags
Secondary Keywords: reusable totes, canvas bags
Title: Best Eco Bags for Everyday Use
Meta Description: Everything you need to know about eco bags.
Slug: best-eco-bags
Featured Image: hero
Featured Image Alt: A stack of eco bags

## Introduction
Eco bags are reusable shopping bags made from sustainable materials.
They replace single-use plastic at the checkout line.

## Benefits
- Durable — survives years of weekly shopping
- Washable: toss it in with your regular laundry
- Affordable

## Types
- Canvas totes
- Jute bags
[image: types-collage]

## How It Works
1. Pick a size that fits your usual haul
2. Keep one folded in your commute bag
3. Wash it monthly

## Use Cases
- Grocery runs
- Beach days

## Brand Promotion
Brand: GreenCarry
- Certified organic cotton
- Lifetime repair program
CTA: Shop the GreenCarry collection today.

## FAQs
Q: How many plastic bags does one eco bag replace?
A: Several hundred over its lifetime.
Q: Are eco bags machine washable?
A: Most canvas and cotton bags are.

## Conclusion
Switching to eco bags is one of the cheapest sustainability wins available.
`

func TestParseFullDraft(t *testing.T) {
	post := Parse(fullDraft)

	if post.PrimaryKeyword != "eco bags" {
		t.Errorf("PrimaryKeyword = %q, want %q", post.PrimaryKeyword, "eco bags")
	}
	if len(post.SecondaryKeywords) != 2 || post.SecondaryKeywords[0] != "reusable totes" {
		t.Errorf("SecondaryKeywords = %v", post.SecondaryKeywords)
	}
	if post.H1Title != "Best Eco Bags for Everyday Use" {
		t.Errorf("H1Title = %q", post.H1Title)
	}
	if post.Slug != "best-eco-bags" {
		t.Errorf("Slug = %q", post.Slug)
	}
	if post.FeaturedImage.FileRef != "hero" || post.FeaturedImage.Alt != "A stack of eco bags" {
		t.Errorf("FeaturedImage = %+v", post.FeaturedImage)
	}
	if !strings.Contains(post.Sections.WhatIs.Text, "reusable shopping bags") {
		t.Errorf("WhatIs.Text = %q", post.Sections.WhatIs.Text)
	}
	if !strings.Contains(post.Sections.Conclusion.Text, "sustainability wins") {
		t.Errorf("Conclusion.Text = %q", post.Sections.Conclusion.Text)
	}
}

func TestParseListItems(t *testing.T) {
	post := Parse(fullDraft)

	benefits := post.Sections.Benefits.Items
	if len(benefits) != 3 {
		t.Fatalf("Benefits items = %d, want 3", len(benefits))
	}
	if benefits[0].Title != "Durable" || !strings.Contains(benefits[0].Text, "weekly shopping") {
		t.Errorf("benefits[0] = %+v", benefits[0])
	}
	if benefits[1].Title != "Washable" {
		t.Errorf("benefits[1] = %+v", benefits[1])
	}
	if benefits[2].Title != "Affordable" || benefits[2].Text != "" {
		t.Errorf("benefits[2] = %+v", benefits[2])
	}

	steps := post.Sections.HowItWorks.Items
	if len(steps) != 3 {
		t.Fatalf("HowItWorks items = %d, want 3", len(steps))
	}
	if steps[0].Title != "Pick a size that fits your usual haul" {
		t.Errorf("steps[0] = %+v", steps[0])
	}
}

func TestParseFAQPairs(t *testing.T) {
	post := Parse(fullDraft)

	faqs := post.Sections.FAQs.Items
	if len(faqs) != 2 {
		t.Fatalf("FAQ items = %d, want 2", len(faqs))
	}
	if faqs[0].Question != "How many plastic bags does one eco bag replace?" {
		t.Errorf("faqs[0].Question = %q", faqs[0].Question)
	}
	if faqs[0].Answer != "Several hundred over its lifetime." {
		t.Errorf("faqs[0].Answer = %q", faqs[0].Answer)
	}
}

func TestParseBrandPromotion(t *testing.T) {
	post := Parse(fullDraft)

	promo := post.Sections.BrandPromotion
	if !promo.Enabled {
		t.Fatal("BrandPromotion should be enabled")
	}
	if promo.BrandName != "GreenCarry" {
		t.Errorf("BrandName = %q", promo.BrandName)
	}
	if len(promo.Bullets) != 2 {
		t.Errorf("Bullets = %v", promo.Bullets)
	}
	if !strings.Contains(promo.CallToAction, "GreenCarry collection") {
		t.Errorf("CallToAction = %q", promo.CallToAction)
	}
}

func TestParseImageMarkers(t *testing.T) {
	post := Parse(fullDraft)

	images := post.Sections.Types.Images
	if len(images) != 1 {
		t.Fatalf("Types images = %d, want 1", len(images))
	}
	if images[0].Keyword != "types-collage" {
		t.Errorf("Keyword = %q", images[0].Keyword)
	}
	if images[0].SectionID != SectionTypes {
		t.Errorf("SectionID = %q", images[0].SectionID)
	}
	if images[0].Position != 1 {
		t.Errorf("Position = %d", images[0].Position)
	}
}

func TestParseEmptyInput(t *testing.T) {
	post := Parse("")

	for _, id := range SectionIDs() {
		if post.HasContent(id) {
			t.Errorf("section %s should be empty", id)
		}
	}
	if post.PrimaryKeyword != "" || post.H1Title != "" {
		t.Errorf("metadata should be empty: %+v", post)
	}
}

func TestParseNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"just some text with no markers at all",
		"## Benefits",
		"Q: orphan question outside faq section",
		"[image: ]",
		"Primary Keyword:",
		strings.Repeat("## Introduction\n", 50),
		"##\n###\n- \n* \n",
	}
	for _, in := range inputs {
		_ = Parse(in) // must not panic
	}
}

func TestParseDuplicateSectionLastNonEmptyWins(t *testing.T) {
	doc := "## Introduction\nFirst version of the intro.\n\n## Introduction\nSecond version of the intro.\n"
	post := Parse(doc)
	if !strings.Contains(post.Sections.WhatIs.Text, "Second version") {
		t.Errorf("later non-empty occurrence should win: %q", post.Sections.WhatIs.Text)
	}
}

func TestParseDuplicateSectionEmptyIgnored(t *testing.T) {
	doc := "## Introduction\nThe only written intro.\n\n## Introduction\n\n## Conclusion\nDone.\n"
	post := Parse(doc)
	if !strings.Contains(post.Sections.WhatIs.Text, "only written intro") {
		t.Errorf("empty duplicate must not clobber content: %q", post.Sections.WhatIs.Text)
	}
}

func TestParseSectionAliases(t *testing.T) {
	tests := []struct {
		heading string
		section string
	}{
		{"## What Is", SectionWhatIs},
		{"INTRODUCTION", SectionWhatIs},
		{"## Steps", SectionHowItWorks},
		{"how-it-works:", SectionHowItWorks},
		{"Frequently Asked Questions", SectionFAQs},
		{"### FAQ", SectionFAQs},
		{"Final Thoughts", SectionConclusion},
	}
	for _, tt := range tests {
		post := Parse(tt.heading + "\nsome section body text here\n")
		if !post.HasContent(tt.section) {
			t.Errorf("heading %q should populate section %s", tt.heading, tt.section)
		}
	}
}

func TestMergeKeywordLock(t *testing.T) {
	base := Parse("Primary Keyword: eco bags\nLock Keywords: yes\n")
	next := Parse("Primary Keyword: reusable totes\n")

	merged := Merge(base, next)
	if merged.PrimaryKeyword != "eco bags" {
		t.Errorf("locked keyword changed: %q", merged.PrimaryKeyword)
	}
	if !merged.KeywordLocked {
		t.Error("lock should survive merge")
	}
}

func TestMergeUnlockedKeywordUpdates(t *testing.T) {
	base := Parse("Primary Keyword: eco bags\n")
	next := Parse("Primary Keyword: reusable totes\n")

	merged := Merge(base, next)
	if merged.PrimaryKeyword != "reusable totes" {
		t.Errorf("unlocked keyword should update: %q", merged.PrimaryKeyword)
	}
}

func TestMergeKeepsContentOverEmptiness(t *testing.T) {
	base := Parse("## Introduction\nWritten intro stays.\n")
	merged := Merge(base, Parse(""))
	if !strings.Contains(merged.Sections.WhatIs.Text, "Written intro stays") {
		t.Errorf("merge lost content: %q", merged.Sections.WhatIs.Text)
	}
}

func TestSlugDerivedFromTitle(t *testing.T) {
	post := Parse("Title: Best Eco Bags for 2026!\n")
	if post.Slug != "best-eco-bags-for-2026" {
		t.Errorf("Slug = %q", post.Slug)
	}
}
