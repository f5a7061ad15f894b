// Command amiyblog starts the blog production service. All configuration
// comes from environment variables.
package main

import (
	"log"

	amiyblog "github.com/Amiy-maker/amiyblog-sub001"
)

func main() {
	app := amiyblog.New(amiyblog.Config{
		Name:        amiyblog.EnvOr("SITE_NAME", "Blog"),
		URL:         amiyblog.EnvOr("SITE_URL", "http://localhost:3000"),
		Description: amiyblog.EnvOr("SITE_DESCRIPTION", ""),
		Author:      amiyblog.EnvOr("SITE_AUTHOR", ""),

		Addr:         amiyblog.EnvOr("ADDR", ":3000"),
		DatabasePath: amiyblog.EnvOr("DATABASE_PATH", "data/amiyblog.db"),

		AdminPassword: amiyblog.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: amiyblog.MustEnv("SESSION_SECRET"),
		CookieSecure:  amiyblog.EnvOr("COOKIE_SECURE", "") == "true",

		PlatformURL:   amiyblog.EnvOr("PLATFORM_URL", ""),
		PlatformToken: amiyblog.EnvOr("PLATFORM_TOKEN", ""),
		ImageHostURL:  amiyblog.EnvOr("IMAGE_HOST_URL", ""),
	})
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
