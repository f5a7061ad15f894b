package amiyblog

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/Amiy-maker/amiyblog-sub001/blog"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an image from src, resizes it to maxImageWidth when
// wider, and re-encodes it as JPEG ready for the relay to the image host.
// Returns metadata and the encoded bytes.
func processImage(src io.Reader, keyword string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Keyword:    keyword,
		Width:      w,
		Height:     h,
		Size:       buf.Len(),
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// imageKeyword derives the registry keyword for an upload: the form value
// when given, otherwise a slug of the uploaded filename.
func imageKeyword(formValue, filename string) string {
	if kw := strings.TrimSpace(formValue); kw != "" {
		return blog.Slugify(kw)
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return blog.Slugify(base)
}

// handleImageUpload is the upload relay: the file is decoded and
// re-encoded locally, forwarded to the image host, and the returned hosted
// URL is registered under the image's keyword for later renders.
func (a *App) handleImageUpload(c echo.Context) error {
	if a.ImageHost == nil {
		return c.JSON(http.StatusOK, UploadResponse{Message: "image host not configured"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, UploadResponse{Message: "no image file provided"})
	}
	if file.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, UploadResponse{Message: "file too large (max 10MB)"})
	}

	keyword := imageKeyword(c.FormValue("keyword"), file.Filename)
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, UploadResponse{Message: "image keyword required"})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, keyword)
	if err != nil {
		return c.JSON(http.StatusBadRequest, UploadResponse{Message: "invalid image: " + err.Error()})
	}
	img.Alt = strings.TrimSpace(c.FormValue("alt"))

	url, err := a.ImageHost.Upload(c.Request().Context(), keyword, keyword+".jpg", data)
	if err != nil {
		c.Logger().Errorf("image upload relay: %v", err)
		return c.JSON(http.StatusBadGateway, UploadResponse{Message: "image host unavailable"})
	}
	img.URL = url

	if err := a.Store.SaveImage(img); err != nil {
		return err
	}
	a.Cache.Invalidate()

	return c.JSON(http.StatusOK, UploadResponse{Success: true, Image: &img})
}

func (a *App) handleImageDelete(c echo.Context) error {
	keyword := c.Param("keyword")
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, StatusResponse{Message: "keyword required"})
	}
	if err := a.Store.DeleteImage(keyword); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, StatusResponse{Success: true})
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"images":  images,
	})
}
