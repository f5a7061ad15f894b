// Package amiyblog is a blog production service built with Go and Echo.
// It turns loosely structured marketing drafts into validated, SEO-checked
// HTML: the blog subpackage parses drafts into a fixed section schema,
// validates them against publishing rules, and renders the final document;
// this package wires that pipeline into a JSON API with an editor password
// gate, an image upload relay, and a commerce platform client for product
// listings and publishing.
package amiyblog

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/Amiy-maker/amiyblog-sub001/blog"
	"github.com/Amiy-maker/amiyblog-sub001/platform"
)

// App is the central application. It wires together the store, cache,
// platform clients, handlers and middleware.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Cache  *URLCache
	Rules  blog.Rules

	Platform  *platform.Client
	ImageHost *platform.ImageHost

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Rules:  blog.DefaultRules(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, clients, middleware and routes,
// then starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("amiyblog: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("amiyblog: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("amiyblog: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewURLCache(store, a.Config.ImageCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, loginWindow)

	if a.Config.PlatformURL != "" {
		a.Platform = platform.NewClient(a.Config.PlatformURL, a.Config.PlatformToken)
	}
	if a.Config.ImageHostURL != "" {
		a.ImageHost = platform.NewImageHost(a.Config.ImageHostURL, a.Config.PlatformToken)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Pipeline endpoints: open, stateless per request.
	e.POST("/api/parse", a.handleParse)
	e.POST("/api/validate", a.handleValidate)
	e.POST("/api/render", a.handleRender)

	// Editor gate.
	e.POST("/api/login", a.handleLogin)
	e.POST("/api/logout", handleLogout)

	// External collaborator proxies (editor only, except diagnostics).
	e.GET("/api/connection", a.handleConnection)
	e.GET("/api/products", a.handleProducts, a.requireEditor)
	e.GET("/api/images", a.handleImageList, a.requireEditor)
	e.POST("/api/images", a.handleImageUpload, a.requireEditor)
	e.DELETE("/api/images/:keyword", a.handleImageDelete, a.requireEditor)
	e.POST("/api/publish", a.handlePublish, a.requireEditor)

	// Publish log feeds.
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("amiyblog: required environment variable %s is not set", key)
	}
	return v
}
