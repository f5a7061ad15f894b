package blog

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Rules is the fixed validation configuration. It is consulted, never
// mutated, by Validate.
type Rules struct {
	RequiredH1Count       int
	H1ContainsKeyword     bool
	RequireFeaturedImage  bool
	MinIntroductionWords  int
	RequirePrimaryKeyword bool
}

// DefaultRules returns the publishing rule set.
func DefaultRules() Rules {
	return Rules{
		RequiredH1Count:       1,
		H1ContainsKeyword:     true,
		RequireFeaturedImage:  true,
		MinIntroductionWords:  50,
		RequirePrimaryKeyword: true,
	}
}

// ValidationState is the outcome of one validation pass: blocking errors,
// advisory warnings, and the set of sections considered complete. It is
// derived from the post on every call, never stored.
type ValidationState struct {
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
	Completed []string `json:"completedSections"`
}

// IsValid reports whether the post can be published.
func (v ValidationState) IsValid() bool {
	return len(v.Errors) == 0
}

// IsCompleted reports whether the named section was marked complete.
func (v ValidationState) IsCompleted(sectionID string) bool {
	for _, id := range v.Completed {
		if id == sectionID {
			return true
		}
	}
	return false
}

// listSections are the slots validated as item sequences.
var listSections = []string{
	SectionBenefits,
	SectionTypes,
	SectionHowItWorks,
	SectionUseCases,
	SectionFAQs,
}

// Validate checks post against rules and returns the resulting diagnostics.
// Pure and deterministic: failures are collected into per-field error maps
// and flattened in field order so identical input always yields identical
// output.
func Validate(post Post, rules Rules) ValidationState {
	errs := validation.Errors{}
	warns := validation.Errors{}

	if rules.RequiredH1Count > 0 && strings.TrimSpace(post.H1Title) == "" {
		errs["h1Title"] = validation.NewError("blog.h1_missing", "h1 title is required")
	}

	if rules.RequirePrimaryKeyword && strings.TrimSpace(post.PrimaryKeyword) == "" {
		errs["primaryKeyword"] = validation.NewError("blog.keyword_missing", "primary keyword is required")
	}

	if rules.H1ContainsKeyword && post.H1Title != "" && post.PrimaryKeyword != "" {
		if !strings.Contains(strings.ToLower(post.H1Title), strings.ToLower(post.PrimaryKeyword)) {
			errs["h1Keyword"] = validation.NewError("blog.h1_keyword", "h1 title must contain the primary keyword")
		}
	}

	if rules.RequireFeaturedImage {
		switch {
		case post.FeaturedImage.FileRef == "":
			errs["featuredImage"] = validation.NewError("blog.featured_image_missing", "featured image is required")
		case strings.TrimSpace(post.FeaturedImage.Alt) == "":
			errs["featuredImage"] = validation.NewError("blog.featured_image_alt", "featured image alt text is required")
		}
	}

	intro := strings.TrimSpace(post.Sections.WhatIs.Text)
	switch {
	case intro == "":
		errs["introduction"] = validation.NewError("blog.introduction_missing", "introduction is required")
	case wordCount(intro) < rules.MinIntroductionWords:
		warns["introduction"] = validation.NewError("blog.introduction_short",
			fmt.Sprintf("introduction is under %d words", rules.MinIntroductionWords))
	}

	for _, id := range listSections {
		if !post.HasContent(id) {
			warns[id] = validation.NewError("blog.section_empty", fmt.Sprintf("%s section has no items", id))
		}
	}

	state := ValidationState{
		Errors:   flatten(errs),
		Warnings: flatten(warns),
	}

	for _, id := range SectionIDs() {
		if post.HasContent(id) && !sectionHasError(errs, id) {
			state.Completed = append(state.Completed, id)
		}
	}
	return state
}

// sectionHasError ties field-level failures back to their section slot.
func sectionHasError(errs validation.Errors, sectionID string) bool {
	if sectionID == SectionWhatIs {
		_, ok := errs["introduction"]
		return ok
	}
	_, ok := errs[sectionID]
	return ok
}

// flatten renders a field-keyed error map as "field: message" strings in
// sorted field order.
func flatten(errs validation.Errors) []string {
	if len(errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+": "+errs[k].Error())
	}
	return out
}
