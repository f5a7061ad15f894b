package amiyblog

import "github.com/Amiy-maker/amiyblog-sub001/blog"

// ParseRequest is the inbound payload for POST /api/parse.
type ParseRequest struct {
	Document string `json:"document"`
}

// ParseResponse carries the structured post produced by the parser.
type ParseResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Post    *blog.Post `json:"post,omitempty"`
}

// RenderRequest is the inbound payload for POST /api/render. Format may be
// given either inside Options or at the top level; the top level wins.
type RenderRequest struct {
	Document string       `json:"document"`
	Options  blog.Options `json:"options"`
	Format   string       `json:"format,omitempty"`
}

// RenderResponse is the render outcome plus validation diagnostics. When
// RequiresImageUpload is true the caller must upload the listed images and
// render again with their URLs.
type RenderResponse struct {
	Success             bool               `json:"success"`
	Message             string             `json:"message,omitempty"`
	HTML                string             `json:"html,omitempty"`
	RequiresImageUpload bool               `json:"requiresImageUpload"`
	Images              []blog.ImageRef    `json:"images,omitempty"`
	Sections            []blog.SectionInfo `json:"sections,omitempty"`
	Metadata            *blog.Metadata     `json:"metadata,omitempty"`
}

// ValidateResponse carries a standalone validation pass.
type ValidateResponse struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message,omitempty"`
	Valid      bool                  `json:"valid"`
	Validation *blog.ValidationState `json:"validation,omitempty"`
}

// LoginRequest is the password-gate payload.
type LoginRequest struct {
	Password string `json:"password"`
}

// UploadResponse reports one relayed image upload.
type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Image   *Image `json:"image,omitempty"`
}

// PublishResponse reports the outcome of a publish attempt. Validation
// errors and missing images are returned in-band, never as transport errors.
type PublishResponse struct {
	Success             bool            `json:"success"`
	Message             string          `json:"message,omitempty"`
	URL                 string          `json:"url,omitempty"`
	Errors              []string        `json:"errors,omitempty"`
	RequiresImageUpload bool            `json:"requiresImageUpload,omitempty"`
	Images              []blog.ImageRef `json:"images,omitempty"`
}

// StatusResponse is the generic success/message envelope.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
