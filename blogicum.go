// Package blogicum is a multi-user blog built with Go, Echo, and templ.
// Registered users publish posts under categories and locations, schedule
// them into the future, keep drafts, and comment on each other's posts.
//
// Handlers are plain functions composed from three pieces: the PostFilter
// query builder for listings, a per-resource ownership check for mutations,
// and the Store for persistence. Hidden resources answer 404, never 403.
package blogicum

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central blogicum application. It wires together the store,
// taxonomy cache, handlers and middleware.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store

	taxonomy     *taxonomyCache
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates a new blogicum App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start initializes the database, cache, middleware and routes, then starts
// the server. It blocks until the server stops.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("blogicum: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blogicum: init store: %w", err)
	}
	a.Store = store

	if err := os.MkdirAll(a.Config.MediaDir, 0o755); err != nil {
		return fmt.Errorf("blogicum: media dir: %w", err)
	}

	a.taxonomy = newTaxonomyCache(store, a.Config.TaxonomyCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

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

	e.Static("/public", a.Config.StaticDir)
	e.Static("/media", a.Config.MediaDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages.
	e.GET("/", a.handleIndex)
	e.GET("/posts/:id/", a.handlePostDetail)
	e.GET("/category/:slug/", a.handleCategory)
	e.GET("/profile/:username/", a.handleProfile)

	// Authoring. Ownership of the target resource is checked inside the
	// handlers; requireAuth only guarantees a logged-in principal.
	e.GET("/posts/create/", a.handlePostCreate, a.requireAuth)
	e.POST("/posts/create/", a.handlePostCreate, a.requireAuth)
	e.GET("/posts/:id/edit/", a.handlePostEdit, a.requireAuth)
	e.POST("/posts/:id/edit/", a.handlePostEdit, a.requireAuth)
	e.GET("/posts/:id/delete/", a.handlePostDelete, a.requireAuth)
	e.POST("/posts/:id/delete/", a.handlePostDelete, a.requireAuth)

	e.POST("/posts/:id/comment/", a.handleCommentCreate, a.requireAuth)
	e.GET("/posts/:id/edit_comment/:comment_id/", a.handleCommentEdit, a.requireAuth)
	e.POST("/posts/:id/edit_comment/:comment_id/", a.handleCommentEdit, a.requireAuth)
	e.GET("/posts/:id/delete_comment/:comment_id/", a.handleCommentDelete, a.requireAuth)
	e.POST("/posts/:id/delete_comment/:comment_id/", a.handleCommentDelete, a.requireAuth)

	// Account.
	e.GET("/profile/current/edit/", a.handleProfileEdit, a.requireAuth)
	e.POST("/profile/current/edit/", a.handleProfileEdit, a.requireAuth)
	e.GET("/auth/registration/", a.handleRegister)
	e.POST("/auth/registration/", a.handleRegister)
	e.GET("/auth/login/", a.handleLogin)
	e.POST("/auth/login/", a.handleLogin)
	e.POST("/auth/logout/", a.handleLogout)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", a.Config.Site.URL)
	return c.String(http.StatusOK, body)
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
		log.Fatalf("blogicum: required environment variable %s is not set", key)
	}
	return v
}
