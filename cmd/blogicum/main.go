package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/eringen/blogicum"
	"github.com/eringen/blogicum/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	case "seed":
		if err := runSeed(); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("blogicum %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`blogicum - a multi-user blog built with Go, Echo, and templ

Usage:
  blogicum <command>

Commands:
  serve      Start the HTTP server (default)
  seed       Create demo categories and locations
  version    Print the blogicum version
  help       Show this help message`)
}

func config() blogicum.Config {
	return blogicum.Config{
		Site: views.SiteConfig{
			Name:        blogicum.EnvOr("SITE_NAME", "Blogicum"),
			URL:         strings.TrimSuffix(blogicum.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
			Description: os.Getenv("SITE_DESCRIPTION"),
		},
		Addr:          blogicum.EnvOr("ADDR", ":3000"),
		DatabasePath:  blogicum.EnvOr("DATABASE_PATH", "data/blogicum.db"),
		StaticDir:     blogicum.EnvOr("STATIC_DIR", "public"),
		MediaDir:      blogicum.EnvOr("MEDIA_DIR", "data/media"),
		SessionSecret: blogicum.MustEnv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	}
}

func runServe() error {
	app := blogicum.New(config())
	defer app.Close()
	return app.Start()
}

// runSeed fills an empty database with a starting taxonomy so the post form
// has something to offer.
func runSeed() error {
	cfg := config()
	store, err := blogicum.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	categories := []struct{ title, description string }{
		{"Travel", "Places worth the trip."},
		{"Food", "Cooking and eating out."},
		{"Tech", "Software and hardware notes."},
	}
	for _, cat := range categories {
		if _, err := store.CreateCategory(cat.title, cat.description, "", true); err != nil {
			return fmt.Errorf("seed category %q: %w", cat.title, err)
		}
	}
	for _, name := range []string{"Amsterdam", "Berlin", "Lisbon"} {
		if _, err := store.CreateLocation(name, true); err != nil {
			return fmt.Errorf("seed location %q: %w", name, err)
		}
	}
	fmt.Println("seeded categories and locations")
	return nil
}
