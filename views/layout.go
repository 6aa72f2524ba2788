package views

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// esc shortens html.EscapeString in component bodies.
func esc(s string) string { return html.EscapeString(s) }

// page wraps a body writer in the shared HTML skeleton: head with metadata,
// site navigation for the current viewer, footer. Components build their
// markup into a buffer first so a render error never leaves a half-written
// response.
func page(cfg SiteConfig, v Viewer, title, csrf string, body func(b *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		fmt.Fprintf(&b, "<title>%s — %s</title>", esc(title), esc(cfg.Name))
		if cfg.Description != "" {
			fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">", esc(cfg.Description))
		}
		fmt.Fprintf(&b, "<script type=\"application/ld+json\">%s</script>", WebsiteJsonLD(cfg))
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/style.css\">")
		b.WriteString("</head><body><header class=\"site-header\"><nav>")
		fmt.Fprintf(&b, "<a class=\"brand\" href=\"/\">%s</a>", esc(cfg.Name))
		if v.LoggedIn() {
			fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", profileLink(v.Username), esc(v.Username))
			b.WriteString("<a href=\"/posts/create/\">New post</a>")
			b.WriteString("<a href=\"/profile/current/edit/\">Settings</a>")
			b.WriteString("<form class=\"inline\" method=\"post\" action=\"/auth/logout/\">")
			csrfField(&b, csrf)
			b.WriteString("<button type=\"submit\">Log out</button></form>")
		} else {
			b.WriteString("<a href=\"/auth/login/\">Log in</a>")
			b.WriteString("<a href=\"/auth/registration/\">Sign up</a>")
		}
		b.WriteString("</nav></header><main>")
		body(&b)
		b.WriteString("</main><footer class=\"site-footer\">")
		fmt.Fprintf(&b, "<p>%s</p>", esc(cfg.Name))
		b.WriteString("</footer></body></html>")
		_, err := w.Write(b.Bytes())
		return err
	})
}

func csrfField(b *bytes.Buffer, csrf string) {
	fmt.Fprintf(b, "<input type=\"hidden\" name=\"_csrf\" value=\"%s\">", esc(csrf))
}

// fieldErrorHTML writes the inline error for a form field, if any.
func fieldErrorHTML(b *bytes.Buffer, errs map[string]string, field string) {
	if msg := fieldError(errs, field); msg != "" {
		fmt.Fprintf(b, "<p class=\"field-error\">%s</p>", esc(msg))
	}
}

// NotFound renders the dedicated 404 page.
func NotFound(cfg SiteConfig, v Viewer, csrf string) templ.Component {
	return page(cfg, v, "Page not found", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"error-page\"><h1>404</h1>")
		b.WriteString("<p>The page you are looking for does not exist.</p>")
		b.WriteString("<a href=\"/\">Back to the index</a></section>")
	})
}

// ServerError renders the dedicated 500 page.
func ServerError(cfg SiteConfig, v Viewer, csrf string) templ.Component {
	return page(cfg, v, "Server error", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"error-page\"><h1>500</h1>")
		b.WriteString("<p>Something went wrong on our side. Try again later.</p>")
		b.WriteString("<a href=\"/\">Back to the index</a></section>")
	})
}

// CSRFDenied renders the 403 page shown when a form token fails validation.
func CSRFDenied(cfg SiteConfig, v Viewer, csrf string) templ.Component {
	return page(cfg, v, "Forbidden", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"error-page\"><h1>403</h1>")
		b.WriteString("<p>The form has expired. Go back and try again.</p></section>")
	})
}
