package views

import (
	"bytes"
	"fmt"
	"time"

	"github.com/a-h/templ"
)

// Index renders the public post listing.
func Index(cfg SiteConfig, v Viewer, posts []Post, pag Pagination, csrf string) templ.Component {
	return page(cfg, v, "Latest posts", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"post-list\"><h1>Latest posts</h1>")
		if len(posts) == 0 {
			b.WriteString("<p class=\"empty\">Nothing has been published yet.</p>")
		}
		for _, p := range posts {
			postCard(b, p)
		}
		b.WriteString("</section>")
		paginationNav(b, pag)
	})
}

// CategoryPage renders the listing of one category.
func CategoryPage(cfg SiteConfig, v Viewer, cat Category, posts []Post, pag Pagination, csrf string) templ.Component {
	return page(cfg, v, cat.Title, csrf, func(b *bytes.Buffer) {
		fmt.Fprintf(b, "<section class=\"post-list\"><h1>%s</h1>", esc(cat.Title))
		if cat.Description != "" {
			fmt.Fprintf(b, "<p class=\"category-description\">%s</p>", esc(cat.Description))
		}
		if len(posts) == 0 {
			b.WriteString("<p class=\"empty\">No posts in this category yet.</p>")
		}
		for _, p := range posts {
			postCard(b, p)
		}
		b.WriteString("</section>")
		paginationNav(b, pag)
	})
}

// Profile renders an author page. The owner sees drafts and scheduled posts
// in the same list, marked as hidden.
func Profile(cfg SiteConfig, v Viewer, profile User, posts []Post, pag Pagination, csrf string) templ.Component {
	return page(cfg, v, profile.Username, csrf, func(b *bytes.Buffer) {
		fmt.Fprintf(b, "<section class=\"profile\"><h1>%s</h1>", esc(profile.DisplayName()))
		fmt.Fprintf(b, "<p class=\"username\">@%s</p>", esc(profile.Username))
		if v.ID == profile.ID {
			b.WriteString("<a href=\"/profile/current/edit/\">Edit profile</a>")
		}
		b.WriteString("</section><section class=\"post-list\">")
		if len(posts) == 0 {
			b.WriteString("<p class=\"empty\">No posts yet.</p>")
		}
		for _, p := range posts {
			postCard(b, p)
		}
		b.WriteString("</section>")
		paginationNav(b, pag)
	})
}

// PostDetail renders a single post with its comments, oldest first, and the
// comment submission form for logged-in viewers.
func PostDetail(cfg SiteConfig, v Viewer, post Post, comments []Comment, form CommentForm, csrf string) templ.Component {
	return page(cfg, v, post.Title, csrf, func(b *bytes.Buffer) {
		fmt.Fprintf(b, "<script type=\"application/ld+json\">%s</script>", BlogPostingJsonLD(cfg, post))
		b.WriteString("<article class=\"post\">")
		fmt.Fprintf(b, "<h1>%s</h1>", esc(post.Title))
		postMeta(b, post)
		if !post.Visible(time.Now()) {
			b.WriteString("<p class=\"draft-note\">This post is not visible to other readers.</p>")
		}
		if post.Image != "" {
			fmt.Fprintf(b, "<img class=\"post-image\" src=\"/media/%s\" alt=\"\">", esc(post.Image))
		}
		renderText(b, post.Text)
		if v.ID == post.AuthorID {
			fmt.Fprintf(b, "<nav class=\"post-actions\"><a href=\"/posts/%d/edit/\">Edit</a> <a href=\"/posts/%d/delete/\">Delete</a></nav>", post.ID, post.ID)
		}
		b.WriteString("</article>")

		fmt.Fprintf(b, "<section class=\"comments\"><h2>Comments (%d)</h2>", len(comments))
		for _, cm := range comments {
			commentCard(b, v, cm)
		}
		if v.LoggedIn() {
			fmt.Fprintf(b, "<form method=\"post\" action=\"/posts/%d/comment/\">", post.ID)
			csrfField(b, csrf)
			fmt.Fprintf(b, "<textarea name=\"text\" rows=\"4\" placeholder=\"Write a comment\">%s</textarea>", esc(form.Text))
			fieldErrorHTML(b, form.Errors, "text")
			b.WriteString("<button type=\"submit\">Comment</button></form>")
		} else {
			b.WriteString("<p><a href=\"/auth/login/\">Log in</a> to leave a comment.</p>")
		}
		b.WriteString("</section>")
	})
}

func postCard(b *bytes.Buffer, p Post) {
	b.WriteString("<article class=\"post-card\">")
	fmt.Fprintf(b, "<h2><a href=\"%s\">%s</a></h2>", p.Link(), esc(p.Title))
	postMeta(b, p)
	if !p.Published {
		b.WriteString("<p class=\"draft-note\">Draft</p>")
	} else if p.PubDate.After(time.Now()) {
		b.WriteString("<p class=\"draft-note\">Scheduled</p>")
	}
	fmt.Fprintf(b, "<p class=\"comment-count\">%d comments</p>", p.CommentCount)
	b.WriteString("</article>")
}

func postMeta(b *bytes.Buffer, p Post) {
	b.WriteString("<p class=\"post-meta\">")
	fmt.Fprintf(b, "<a href=\"%s\">%s</a> · <time>%s</time>", profileLink(p.Author), esc(p.Author), FormatDate(p.PubDate))
	if p.CategoryID != 0 {
		fmt.Fprintf(b, " · <a href=\"/category/%s/\">%s</a>", esc(p.CategorySlug), esc(p.CategoryTitle))
	}
	if p.LocationID != 0 {
		fmt.Fprintf(b, " · %s", esc(p.LocationName))
	}
	b.WriteString("</p>")
}

func commentCard(b *bytes.Buffer, v Viewer, cm Comment) {
	b.WriteString("<article class=\"comment\">")
	fmt.Fprintf(b, "<p class=\"comment-meta\"><a href=\"%s\">%s</a> · <time>%s</time></p>",
		profileLink(cm.Author), esc(cm.Author), FormatDate(cm.CreatedAt))
	fmt.Fprintf(b, "<p>%s</p>", esc(cm.Text))
	if v.ID == cm.AuthorID {
		fmt.Fprintf(b, "<nav class=\"comment-actions\"><a href=\"/posts/%d/edit_comment/%d/\">Edit</a> <a href=\"/posts/%d/delete_comment/%d/\">Delete</a></nav>",
			cm.PostID, cm.ID, cm.PostID, cm.ID)
	}
	b.WriteString("</article>")
}

func paginationNav(b *bytes.Buffer, pag Pagination) {
	if pag.Pages <= 1 {
		return
	}
	b.WriteString("<nav class=\"pagination\">")
	if pag.HasPrev() {
		fmt.Fprintf(b, "<a href=\"%s\">Previous</a>", pageURL(pag.BaseURL, pag.Page-1))
	}
	fmt.Fprintf(b, "<span>Page %d of %d</span>", pag.Page, pag.Pages)
	if pag.HasNext() {
		fmt.Fprintf(b, "<a href=\"%s\">Next</a>", pageURL(pag.BaseURL, pag.Page+1))
	}
	b.WriteString("</nav>")
}
