package amiyblog

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Amiy-maker/amiyblog-sub001/blog"
)

// handleParse converts a raw draft into the structured post. Parsing is
// total: the only failure mode is an empty document, reported in-band.
func (a *App) handleParse(c echo.Context) error {
	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ParseResponse{Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Document) == "" {
		return c.JSON(http.StatusOK, ParseResponse{Message: "document is empty"})
	}

	post := blog.Parse(req.Document)
	return c.JSON(http.StatusOK, ParseResponse{Success: true, Post: &post})
}

// handleValidate runs the rule set over a parsed draft.
func (a *App) handleValidate(c echo.Context) error {
	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ValidateResponse{Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Document) == "" {
		return c.JSON(http.StatusOK, ValidateResponse{Message: "document is empty"})
	}

	state := blog.Validate(blog.Parse(req.Document), a.Rules)
	return c.JSON(http.StatusOK, ValidateResponse{
		Success:    true,
		Valid:      state.IsValid(),
		Validation: &state,
	})
}

// handleRender runs the full pipeline: parse, validate, render. Stored
// image URLs are merged under any request-supplied ones, so a follow-up
// render after uploads resolves previously missing references.
func (a *App) handleRender(c echo.Context) error {
	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, RenderResponse{Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Document) == "" {
		return c.JSON(http.StatusOK, RenderResponse{Message: "document is empty"})
	}
	if req.Format != "" {
		req.Options.Format = req.Format
	}

	opts := req.Options
	if opts.AuthorName == "" {
		opts.AuthorName = a.Config.Author
	}
	urls, err := a.Cache.URLMap()
	if err != nil {
		return err
	}
	for k, v := range opts.ImageURLs {
		urls[k] = v
	}
	opts.ImageURLs = urls

	post := blog.Parse(req.Document)
	state := blog.Validate(post, a.Rules)
	res := blog.Render(post, state, opts)

	return c.JSON(http.StatusOK, RenderResponse{
		Success:             true,
		HTML:                res.HTML,
		RequiresImageUpload: res.RequiresImageUpload,
		Images:              res.Images,
		Sections:            res.Sections,
		Metadata:            &res.Metadata,
	})
}

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, StatusResponse{Message: "too many login attempts, try again later"})
	}
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, StatusResponse{Message: "invalid request body"})
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(c.RealIP())
		return c.JSON(http.StatusUnauthorized, StatusResponse{Message: "wrong password"})
	}
	if err := setEditorSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Success: true})
}

func handleLogout(c echo.Context) error {
	if err := clearEditorSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Success: true})
}

// handleConnection is the connectivity diagnostics proxy: one call against
// the commerce platform, outcome reported in-band.
func (a *App) handleConnection(c echo.Context) error {
	if a.Platform == nil {
		return c.JSON(http.StatusOK, StatusResponse{Message: "platform not configured"})
	}
	if err := a.Platform.ValidateConnection(c.Request().Context()); err != nil {
		c.Logger().Errorf("connection check: %v", err)
		return c.JSON(http.StatusOK, StatusResponse{Message: "platform unreachable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Success: true})
}

// handleProducts proxies the platform's product listing.
func (a *App) handleProducts(c echo.Context) error {
	if a.Platform == nil {
		return c.JSON(http.StatusOK, StatusResponse{Message: "platform not configured"})
	}
	products, err := a.Platform.ListProducts(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list products: %v", err)
		return c.JSON(http.StatusBadGateway, StatusResponse{Message: "product listing unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": products,
	})
}

// handlePublish runs the pipeline end to end and hands the finished
// document to the commerce platform. Validation failures and missing
// images come back in the response body; they are outcomes, not faults.
func (a *App) handlePublish(c echo.Context) error {
	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, PublishResponse{Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Document) == "" {
		return c.JSON(http.StatusOK, PublishResponse{Message: "document is empty"})
	}
	if a.Platform == nil {
		return c.JSON(http.StatusOK, PublishResponse{Message: "platform not configured"})
	}

	post := blog.Parse(req.Document)
	state := blog.Validate(post, a.Rules)
	if !state.IsValid() {
		return c.JSON(http.StatusOK, PublishResponse{
			Message: "draft failed validation",
			Errors:  state.Errors,
		})
	}

	opts := req.Options
	opts.Format = blog.FormatDocument
	opts.IncludeImages = true
	opts.IncludeSchema = true
	if opts.AuthorName == "" {
		opts.AuthorName = a.Config.Author
	}
	urls, err := a.Cache.URLMap()
	if err != nil {
		return err
	}
	for k, v := range opts.ImageURLs {
		urls[k] = v
	}
	opts.ImageURLs = urls

	res := blog.Render(post, state, opts)
	if res.RequiresImageUpload {
		return c.JSON(http.StatusOK, PublishResponse{
			Message:             "images must be uploaded before publishing",
			RequiresImageUpload: true,
			Images:              res.Images,
		})
	}

	pub, err := a.Platform.Publish(c.Request().Context(), platformPublishRequest(post, res.HTML, opts))
	if err != nil {
		c.Logger().Errorf("publish: %v", err)
		return c.JSON(http.StatusBadGateway, PublishResponse{Message: "platform rejected the publish call"})
	}

	record := Publish{
		ID:          uuid.NewString(),
		Slug:        post.Slug,
		Title:       post.H1Title,
		URL:         pub.URL,
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.Store.SavePublish(record); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PublishResponse{Success: true, URL: pub.URL})
}

func (a *App) handleFeed(c echo.Context) error {
	publishes, err := a.Store.ListPublishes()
	if err != nil {
		return err
	}
	return a.renderRSS(c, publishes)
}

func (a *App) handleSitemap(c echo.Context) error {
	publishes, err := a.Store.ListPublishes()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, publishes)
}
