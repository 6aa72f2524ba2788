package views

import (
	"bytes"
	"fmt"

	"github.com/a-h/templ"
)

// PostFormPage renders the create/edit post form. Categories and locations
// come from the published taxonomy lists.
func PostFormPage(cfg SiteConfig, v Viewer, form PostForm, cats []Category, locs []Location, editing bool, action, csrf string) templ.Component {
	title := "New post"
	if editing {
		title = "Edit post"
	}
	return page(cfg, v, title, csrf, func(b *bytes.Buffer) {
		fmt.Fprintf(b, "<section class=\"form-page\"><h1>%s</h1>", title)
		fmt.Fprintf(b, "<form method=\"post\" action=\"%s\" enctype=\"multipart/form-data\">", action)
		csrfField(b, csrf)

		b.WriteString("<label>Title")
		fmt.Fprintf(b, "<input type=\"text\" name=\"title\" maxlength=\"256\" value=\"%s\"></label>", esc(form.Title))
		fieldErrorHTML(b, form.Errors, "title")

		b.WriteString("<label>Text")
		fmt.Fprintf(b, "<textarea name=\"text\" rows=\"12\">%s</textarea></label>", esc(form.Text))
		fieldErrorHTML(b, form.Errors, "text")

		b.WriteString("<label>Publication date")
		fmt.Fprintf(b, "<input type=\"datetime-local\" name=\"pub_date\" value=\"%s\"></label>", esc(form.PubDate))
		b.WriteString("<p class=\"hint\">A date in the future schedules the post.</p>")
		fieldErrorHTML(b, form.Errors, "pub_date")

		b.WriteString("<label>Category<select name=\"category\"><option value=\"\">—</option>")
		for _, cat := range cats {
			sel := ""
			if cat.ID == form.CategoryID {
				sel = " selected"
			}
			fmt.Fprintf(b, "<option value=\"%d\"%s>%s</option>", cat.ID, sel, esc(cat.Title))
		}
		b.WriteString("</select></label>")

		b.WriteString("<label>Location<select name=\"location\"><option value=\"\">—</option>")
		for _, loc := range locs {
			sel := ""
			if loc.ID == form.LocationID {
				sel = " selected"
			}
			fmt.Fprintf(b, "<option value=\"%d\"%s>%s</option>", loc.ID, sel, esc(loc.Name))
		}
		b.WriteString("</select></label>")

		b.WriteString("<label>Image<input type=\"file\" name=\"image\" accept=\"image/*\"></label>")
		fieldErrorHTML(b, form.Errors, "image")

		checked := ""
		if form.Published {
			checked = " checked"
		}
		fmt.Fprintf(b, "<label class=\"checkbox\"><input type=\"checkbox\" name=\"is_published\"%s> Published</label>", checked)

		b.WriteString("<button type=\"submit\">Save</button></form></section>")
	})
}

// ConfirmDeletePost renders the post deletion confirmation page.
func ConfirmDeletePost(cfg SiteConfig, v Viewer, post Post, csrf string) templ.Component {
	return page(cfg, v, "Delete post", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"form-page\"><h1>Delete post</h1>")
		fmt.Fprintf(b, "<p>Delete “%s”? Its comments are removed with it.</p>", esc(post.Title))
		fmt.Fprintf(b, "<form method=\"post\" action=\"/posts/%d/delete/\">", post.ID)
		csrfField(b, csrf)
		b.WriteString("<button type=\"submit\">Delete</button> ")
		fmt.Fprintf(b, "<a href=\"%s\">Cancel</a></form></section>", post.Link())
	})
}

// CommentFormPage renders the standalone comment edit form.
func CommentFormPage(cfg SiteConfig, v Viewer, cm Comment, form CommentForm, csrf string) templ.Component {
	return page(cfg, v, "Edit comment", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"form-page\"><h1>Edit comment</h1>")
		fmt.Fprintf(b, "<form method=\"post\" action=\"/posts/%d/edit_comment/%d/\">", cm.PostID, cm.ID)
		csrfField(b, csrf)
		fmt.Fprintf(b, "<textarea name=\"text\" rows=\"4\">%s</textarea>", esc(form.Text))
		fieldErrorHTML(b, form.Errors, "text")
		b.WriteString("<button type=\"submit\">Save</button> ")
		fmt.Fprintf(b, "<a href=\"%s\">Cancel</a></form></section>", postLink(cm.PostID))
	})
}

// ConfirmDeleteComment renders the comment deletion confirmation page.
func ConfirmDeleteComment(cfg SiteConfig, v Viewer, cm Comment, csrf string) templ.Component {
	return page(cfg, v, "Delete comment", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"form-page\"><h1>Delete comment</h1>")
		fmt.Fprintf(b, "<blockquote>%s</blockquote>", esc(cm.Text))
		fmt.Fprintf(b, "<form method=\"post\" action=\"/posts/%d/delete_comment/%d/\">", cm.PostID, cm.ID)
		csrfField(b, csrf)
		b.WriteString("<button type=\"submit\">Delete</button> ")
		fmt.Fprintf(b, "<a href=\"%s\">Cancel</a></form></section>", postLink(cm.PostID))
	})
}

// Login renders the login form. The limiter message appears as a form error.
func Login(cfg SiteConfig, form LoginForm, csrf string) templ.Component {
	return page(cfg, Viewer{}, "Log in", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"form-page\"><h1>Log in</h1>")
		b.WriteString("<form method=\"post\" action=\"/auth/login/\">")
		csrfField(b, csrf)
		fieldErrorHTML(b, form.Errors, "form")
		b.WriteString("<label>Username")
		fmt.Fprintf(b, "<input type=\"text\" name=\"username\" value=\"%s\"></label>", esc(form.Username))
		b.WriteString("<label>Password<input type=\"password\" name=\"password\"></label>")
		b.WriteString("<button type=\"submit\">Log in</button></form>")
		b.WriteString("<p>No account? <a href=\"/auth/registration/\">Sign up</a>.</p></section>")
	})
}

// Register renders the registration form.
func Register(cfg SiteConfig, form RegisterForm, csrf string) templ.Component {
	return page(cfg, Viewer{}, "Sign up", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"form-page\"><h1>Sign up</h1>")
		b.WriteString("<form method=\"post\" action=\"/auth/registration/\">")
		csrfField(b, csrf)
		b.WriteString("<label>Username")
		fmt.Fprintf(b, "<input type=\"text\" name=\"username\" value=\"%s\"></label>", esc(form.Username))
		fieldErrorHTML(b, form.Errors, "username")
		b.WriteString("<label>Email")
		fmt.Fprintf(b, "<input type=\"email\" name=\"email\" value=\"%s\"></label>", esc(form.Email))
		fieldErrorHTML(b, form.Errors, "email")
		b.WriteString("<label>Password<input type=\"password\" name=\"password\"></label>")
		fieldErrorHTML(b, form.Errors, "password")
		b.WriteString("<label>Repeat password<input type=\"password\" name=\"password_confirm\"></label>")
		fieldErrorHTML(b, form.Errors, "password_confirm")
		b.WriteString("<button type=\"submit\">Sign up</button></form></section>")
	})
}

// ProfileEdit renders the form for the viewer's own profile.
func ProfileEdit(cfg SiteConfig, v Viewer, form ProfileForm, csrf string) templ.Component {
	return page(cfg, v, "Edit profile", csrf, func(b *bytes.Buffer) {
		b.WriteString("<section class=\"form-page\"><h1>Edit profile</h1>")
		b.WriteString("<form method=\"post\" action=\"/profile/current/edit/\">")
		csrfField(b, csrf)
		b.WriteString("<label>Email")
		fmt.Fprintf(b, "<input type=\"email\" name=\"email\" value=\"%s\"></label>", esc(form.Email))
		fieldErrorHTML(b, form.Errors, "email")
		b.WriteString("<label>First name")
		fmt.Fprintf(b, "<input type=\"text\" name=\"first_name\" value=\"%s\"></label>", esc(form.FirstName))
		b.WriteString("<label>Last name")
		fmt.Fprintf(b, "<input type=\"text\" name=\"last_name\" value=\"%s\"></label>", esc(form.LastName))
		b.WriteString("<button type=\"submit\">Save</button></form></section>")
	})
}
