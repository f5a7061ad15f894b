// Package platform holds the HTTP clients for the two external
// collaborators: the commerce platform (product listing, connectivity
// checks, blog publishing) and the image host. The core pipeline never
// imports this package; it only sees the keyword→URL maps and publish
// results the callers feed it.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 15 * time.Second

// Product is one listing returned by the commerce platform.
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Price string `json:"price,omitempty"`
}

// PublishRequest carries a finished HTML document to the commerce platform.
type PublishRequest struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	HTML             string   `json:"html"`
	MetaDescription  string   `json:"metaDescription,omitempty"`
	FeaturedImageURL string   `json:"featuredImageUrl,omitempty"`
	FeaturedImageAlt string   `json:"featuredImageAlt,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// PublishResult is the platform's acknowledgement of a published post.
type PublishResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client talks to the commerce platform. Every call is a single request;
// the caller owns retries and never depends on the platform's success.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a commerce platform client for the given base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// ValidateConnection checks credentials and reachability.
func (c *Client) ValidateConnection(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/connection", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform: validate connection: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform: validate connection: status %d", resp.StatusCode)
	}
	return nil
}

// ListProducts fetches the store's product listing.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/products", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platform: list products: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("platform: list products: status %d", resp.StatusCode)
	}
	var out struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("platform: list products: decode: %w", err)
	}
	return out.Products, nil
}

// Publish sends a finished HTML document to the platform's blog.
func (c *Client) Publish(ctx context.Context, pr PublishRequest) (PublishResult, error) {
	body, err := json.Marshal(pr)
	if err != nil {
		return PublishResult{}, fmt.Errorf("platform: publish: encode: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/blog/publish", bytes.NewReader(body))
	if err != nil {
		return PublishResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return PublishResult{}, fmt.Errorf("platform: publish: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return PublishResult{}, fmt.Errorf("platform: publish: status %d", resp.StatusCode)
	}
	var out PublishResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return PublishResult{}, fmt.Errorf("platform: publish: decode: %w", err)
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("platform: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("platform: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// ImageHost uploads image bytes and returns a stable hosted URL per upload.
type ImageHost struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewImageHost creates an image host client for the given base URL.
func NewImageHost(baseURL, token string) *ImageHost {
	return &ImageHost{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Upload relays an encoded image to the host and returns its hosted URL.
// The keyword becomes the host-side identifier so a later upload for the
// same keyword replaces the image behind the same URL.
func (h *ImageHost) Upload(ctx context.Context, keyword, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("keyword", keyword); err != nil {
		return "", fmt.Errorf("platform: upload image: %w", err)
	}
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("platform: upload image: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("platform: upload image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("platform: upload image: %w", err)
	}

	u, err := url.JoinPath(h.baseURL, "/api/images")
	if err != nil {
		return "", fmt.Errorf("platform: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return "", fmt.Errorf("platform: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("platform: upload image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("platform: upload image: status %d", resp.StatusCode)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("platform: upload image: decode: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("platform: upload image: empty url in response")
	}
	return out.URL, nil
}
