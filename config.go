package blogicum

import (
	"time"

	"github.com/eringen/blogicum/views"
)

// Config holds all configuration for a blogicum site.
type Config struct {
	Site views.SiteConfig // name, canonical URL, description

	Addr         string // listen address (default ":3000")
	DatabasePath string // sqlite path (default "data/blogicum.db")
	StaticDir    string // user assets served under /public (default "public")
	MediaDir     string // uploaded post images served under /media (default "data/media")

	SessionSecret string // required: session cookie encryption secret
	CookieSecure  bool   // set true behind HTTPS

	TaxonomyCacheTTL time.Duration // category/location cache TTL (default 5min)
}

func (c *Config) setDefaults() {
	if c.Site.Name == "" {
		c.Site.Name = "Blogicum"
	}
	if c.Site.URL == "" {
		c.Site.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blogicum.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.MediaDir == "" {
		c.MediaDir = "data/media"
	}
	if c.TaxonomyCacheTTL == 0 {
		c.TaxonomyCacheTTL = 5 * time.Minute
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
