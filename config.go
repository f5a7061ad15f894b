package amiyblog

import "time"

// Config holds all configuration for an amiyblog instance.
type Config struct {
	Name        string // Site name used in feeds (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS
	Author      string // Default author name for rendered bylines

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/amiyblog.db")

	AdminPassword string // Required: password for the editor gate
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PlatformURL   string // Commerce platform base URL
	PlatformToken string // Commerce platform API token
	ImageHostURL  string // Image host base URL (defaults to PlatformURL)

	ImageCacheTTL time.Duration // Image URL map cache TTL (default 5min)
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/amiyblog.db"
	}
	if c.ImageHostURL == "" {
		c.ImageHostURL = c.PlatformURL
	}
	if c.ImageCacheTTL == 0 {
		c.ImageCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
