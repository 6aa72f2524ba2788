package views

import (
	"bytes"
	"strings"
	"testing"
)

func render(t *testing.T, in string) string {
	t.Helper()
	var buf bytes.Buffer
	renderText(&buf, in)
	return buf.String()
}

func TestRenderTextParagraphsAndBreaks(t *testing.T) {
	got := render(t, "first line\nsecond line\n\nnew paragraph")
	want := "<p>first line<br>second line</p><p>new paragraph</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderTextEscapesHTML(t *testing.T) {
	got := render(t, "<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML leaked through: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped markup, got %q", got)
	}
}

func TestRenderTextInlineMarkers(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"**bold**", "<p><strong>bold</strong></p>"},
		{"*italic*", "<p><em>italic</em></p>"},
		{"[home](/posts/1/)", `<p><a href="/posts/1/">home</a></p>`},
		{"[out](https://example.com)", `<p><a href="https://example.com">out</a></p>`},
	}
	for _, tc := range cases {
		if got := render(t, tc.in); got != tc.want {
			t.Errorf("render(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderTextDropsUnsafeLinks(t *testing.T) {
	got := render(t, "[click](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("unsafe scheme survived: %q", got)
	}
	if !strings.Contains(got, "click") {
		t.Errorf("link label lost: %q", got)
	}
}

func TestRenderTextWindowsNewlines(t *testing.T) {
	got := render(t, "a\r\n\r\nb")
	want := "<p>a</p><p>b</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
