package amiyblog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Amiy-maker/amiyblog-sub001/blog"
)

func newTestApp() *App {
	return &App{
		Config: Config{Author: "Editorial Team"},
		Echo:   echo.New(),
		Rules:  blog.DefaultRules(),
	}
}

func postJSON(t *testing.T, app *App, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler(app.Echo.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// An empty document is a caller mistake, not a server fault: every pipeline
// endpoint answers it in-band with success:false and a human message.
func TestEmptyDocumentAnsweredInBand(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name    string
		handler echo.HandlerFunc
	}{
		{"parse", app.handleParse},
		{"validate", app.handleValidate},
		{"render", app.handleRender},
		{"publish", app.handlePublish},
	}
	for _, tt := range tests {
		for _, body := range []string{`{"document":""}`, `{"document":"   \n\t"}`} {
			rec := postJSON(t, app, tt.handler, body)
			if rec.Code != http.StatusOK {
				t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, http.StatusOK)
			}
			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("%s: bad response body: %v", tt.name, err)
			}
			if resp.Success {
				t.Errorf("%s: empty document must not succeed", tt.name)
			}
			if resp.Message == "" {
				t.Errorf("%s: expected a human-readable message", tt.name)
			}
		}
	}
}

func TestHandleParseReturnsPost(t *testing.T) {
	app := newTestApp()

	rec := postJSON(t, app, app.handleParse, `{"document":"Primary Keyword: eco bags\n## Introduction\nSome intro text.\n"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || resp.Post == nil {
		t.Fatalf("expected parsed post, got %+v", resp)
	}
	if resp.Post.PrimaryKeyword != "eco bags" {
		t.Errorf("PrimaryKeyword = %q", resp.Post.PrimaryKeyword)
	}
}

func TestHandleValidateReportsErrors(t *testing.T) {
	app := newTestApp()

	rec := postJSON(t, app, app.handleValidate, `{"document":"## Introduction\nShort intro only.\n"}`)
	var resp ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success {
		t.Fatalf("validate call should succeed: %+v", resp)
	}
	if resp.Valid {
		t.Error("draft missing h1 and keyword must not be valid")
	}
	if resp.Validation == nil || len(resp.Validation.Errors) == 0 {
		t.Errorf("expected validation errors, got %+v", resp.Validation)
	}
}

func TestPublishPayloadCarriesFeaturedImage(t *testing.T) {
	post := blog.Parse("Title: Best Eco Bags\nPrimary Keyword: eco bags\nSecondary Keywords: reusable totes\nFeatured Image: hero\nFeatured Image Alt: A stack of eco bags\n")
	opts := blog.Options{
		ImageURLs: map[string]string{"hero": "https://img.example/hero.jpg"},
	}

	pr := platformPublishRequest(post, "<article></article>", opts)
	if pr.FeaturedImageURL != "https://img.example/hero.jpg" {
		t.Errorf("FeaturedImageURL = %q", pr.FeaturedImageURL)
	}
	if pr.FeaturedImageAlt != "A stack of eco bags" {
		t.Errorf("FeaturedImageAlt = %q", pr.FeaturedImageAlt)
	}
	if pr.Slug != "best-eco-bags" {
		t.Errorf("Slug = %q", pr.Slug)
	}
	if len(pr.Tags) != 2 || pr.Tags[0] != "eco bags" {
		t.Errorf("Tags = %v", pr.Tags)
	}
}

func TestPublishPayloadPrefersExplicitFeaturedURL(t *testing.T) {
	post := blog.Parse("Title: Best Eco Bags\nFeatured Image: hero\n")
	opts := blog.Options{
		FeaturedImageURL: "https://img.example/override.jpg",
		ImageURLs:        map[string]string{"hero": "https://img.example/hero.jpg"},
	}

	pr := platformPublishRequest(post, "<article></article>", opts)
	if pr.FeaturedImageURL != "https://img.example/override.jpg" {
		t.Errorf("FeaturedImageURL = %q", pr.FeaturedImageURL)
	}
}
