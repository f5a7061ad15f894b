package amiyblog

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetImage(t *testing.T) {
	s := setupTestStore(t)

	img := Image{
		Keyword:    "hero",
		URL:        "https://img.example/hero.jpg",
		Alt:        "A stack of eco bags",
		Width:      800,
		Height:     600,
		Size:       52341,
		UploadedAt: "2026-08-26T10:00:00Z",
	}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	got, err := s.GetImage("hero")
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if got != img {
		t.Errorf("GetImage = %+v, want %+v", got, img)
	}
}

func TestSaveImageReplacesKeyword(t *testing.T) {
	s := setupTestStore(t)

	first := Image{Keyword: "hero", URL: "https://img.example/v1.jpg", UploadedAt: "2026-08-25T10:00:00Z"}
	second := Image{Keyword: "hero", URL: "https://img.example/v2.jpg", UploadedAt: "2026-08-26T10:00:00Z"}
	if err := s.SaveImage(first); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if err := s.SaveImage(second); err != nil {
		t.Fatalf("SaveImage replace failed: %v", err)
	}

	got, err := s.GetImage("hero")
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if got.URL != second.URL {
		t.Errorf("URL = %q, want %q", got.URL, second.URL)
	}

	images, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 1 {
		t.Errorf("ListImages = %d records, want 1", len(images))
	}
}

func TestImageURLMap(t *testing.T) {
	s := setupTestStore(t)

	records := []Image{
		{Keyword: "hero", URL: "https://img.example/hero.jpg", UploadedAt: "2026-08-26T10:00:00Z"},
		{Keyword: "types-collage", URL: "https://img.example/types.jpg", UploadedAt: "2026-08-26T10:01:00Z"},
	}
	for _, img := range records {
		if err := s.SaveImage(img); err != nil {
			t.Fatalf("SaveImage failed: %v", err)
		}
	}

	urls, err := s.ImageURLMap()
	if err != nil {
		t.Fatalf("ImageURLMap failed: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("ImageURLMap = %d entries, want 2", len(urls))
	}
	if urls["hero"] != "https://img.example/hero.jpg" {
		t.Errorf("urls[hero] = %q", urls["hero"])
	}
}

func TestDeleteImage(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveImage(Image{Keyword: "hero", URL: "https://img.example/hero.jpg", UploadedAt: "2026-08-26T10:00:00Z"}); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if err := s.DeleteImage("hero"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if _, err := s.GetImage("hero"); err != ErrNotFound {
		t.Errorf("GetImage after delete = %v, want ErrNotFound", err)
	}
}

func TestPublishLog(t *testing.T) {
	s := setupTestStore(t)

	entries := []Publish{
		{ID: "a", Slug: "older-post", Title: "Older Post", URL: "https://shop.example/blog/older-post", PublishedAt: "2026-08-20T10:00:00Z"},
		{ID: "b", Slug: "newer-post", Title: "Newer Post", URL: "https://shop.example/blog/newer-post", PublishedAt: "2026-08-26T10:00:00Z"},
	}
	for _, p := range entries {
		if err := s.SavePublish(p); err != nil {
			t.Fatalf("SavePublish failed: %v", err)
		}
	}

	got, err := s.ListPublishes()
	if err != nil {
		t.Fatalf("ListPublishes failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListPublishes = %d entries, want 2", len(got))
	}
	if got[0].Slug != "newer-post" {
		t.Errorf("most recent first: got %q", got[0].Slug)
	}
}

func TestURLCacheInvalidate(t *testing.T) {
	s := setupTestStore(t)
	cache := NewURLCache(s, time.Hour)

	urls, err := cache.URLMap()
	if err != nil {
		t.Fatalf("URLMap failed: %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("expected empty map, got %v", urls)
	}

	if err := s.SaveImage(Image{Keyword: "hero", URL: "https://img.example/hero.jpg", UploadedAt: "2026-08-26T10:00:00Z"}); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	// Still cached.
	urls, err = cache.URLMap()
	if err != nil {
		t.Fatalf("URLMap failed: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("cache should still be empty, got %v", urls)
	}

	cache.Invalidate()
	urls, err = cache.URLMap()
	if err != nil {
		t.Fatalf("URLMap failed: %v", err)
	}
	if urls["hero"] == "" {
		t.Errorf("expected hero after invalidate, got %v", urls)
	}
}

func TestURLCacheReturnsCopies(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SaveImage(Image{Keyword: "hero", URL: "https://img.example/hero.jpg", UploadedAt: "2026-08-26T10:00:00Z"}); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	cache := NewURLCache(s, time.Hour)

	first, err := cache.URLMap()
	if err != nil {
		t.Fatalf("URLMap failed: %v", err)
	}
	first["hero"] = "mutated"

	second, err := cache.URLMap()
	if err != nil {
		t.Fatalf("URLMap failed: %v", err)
	}
	if second["hero"] != "https://img.example/hero.jpg" {
		t.Errorf("caller mutation leaked into cache: %q", second["hero"])
	}
}
