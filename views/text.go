package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic = regexp.MustCompile(`\*([^*]+)\*`)
	reLink   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// PostText renders a post body as HTML. Blank lines separate paragraphs;
// a light inline syntax (**bold**, *italic*, [label](url)) is supported.
// Everything is escaped before inline markers are expanded.
func PostText(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		renderText(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func renderText(buf *bytes.Buffer, text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		buf.WriteString("<p>")
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			if i > 0 {
				buf.WriteString("<br>")
			}
			buf.WriteString(renderInline(line))
		}
		buf.WriteString("</p>")
	}
}

func renderInline(line string) string {
	s := html.EscapeString(line)
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reLink.ReplaceAllStringFunc(s, func(m string) string {
		parts := reLink.FindStringSubmatch(m)
		href := parts[2]
		if !safeHref(href) {
			return parts[1]
		}
		return `<a href="` + href + `">` + parts[1] + `</a>`
	})
	return s
}

func safeHref(href string) bool {
	return strings.HasPrefix(href, "/") ||
		strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://")
}
