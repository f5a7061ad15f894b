package amiyblog

import (
	"net/url"
	"path"
	"strings"

	"github.com/Amiy-maker/amiyblog-sub001/blog"
	"github.com/Amiy-maker/amiyblog-sub001/platform"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// platformPublishRequest maps a rendered post onto the platform's publish
// payload. The slug falls back to the h1 when the draft supplied none, and
// the featured image ships as its resolved hosted URL, looked up through the
// same options the renderer resolved against.
func platformPublishRequest(post blog.Post, html string, opts blog.Options) platform.PublishRequest {
	slug := post.Slug
	if slug == "" {
		slug = blog.Slugify(post.H1Title)
	}
	tags := post.SecondaryKeywords
	if post.PrimaryKeyword != "" {
		tags = append([]string{post.PrimaryKeyword}, tags...)
	}
	featuredURL := opts.FeaturedImageURL
	if featuredURL == "" {
		featuredURL = opts.ImageURLs[post.FeaturedImage.FileRef]
	}
	return platform.PublishRequest{
		Title:            post.H1Title,
		Slug:             slug,
		HTML:             html,
		MetaDescription:  post.MetaDescription,
		FeaturedImageURL: featuredURL,
		FeaturedImageAlt: post.FeaturedImage.Alt,
		Tags:             tags,
	}
}
