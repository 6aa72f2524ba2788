package views

import "time"

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Blogicum")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
}

// User is a registered author. PasswordHash never leaves the store layer.
type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// DisplayName prefers the real name over the username.
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Viewer is the authenticated principal rendering the page, or the zero
// value for an anonymous visitor.
type Viewer struct {
	ID       int64
	Username string
}

// LoggedIn reports whether the viewer has an active session.
func (v Viewer) LoggedIn() bool {
	return v.ID != 0
}

// Location is an optional place attribute of a post.
type Location struct {
	ID        int64
	Name      string
	Published bool
	CreatedAt time.Time
}

// Category groups posts under a unique slug.
type Category struct {
	ID          int64
	Title       string
	Description string
	Slug        string
	Published   bool
	CreatedAt   time.Time
}

// Link returns the category listing URL.
func (c Category) Link() string {
	return "/category/" + c.Slug + "/"
}

// Post is the core content type stored in SQLite and rendered by templates.
// Location and category are optional; a zero ID means the reference is null.
type Post struct {
	ID        int64
	Title     string
	Text      string
	Image     string // uploaded image filename under /media/, "" if none
	PubDate   time.Time
	Published bool
	CreatedAt time.Time

	AuthorID int64
	Author   string // username, joined in by the store

	LocationID   int64
	LocationName string

	CategoryID        int64
	CategoryTitle     string
	CategorySlug      string
	CategoryPublished bool

	CommentCount int
}

// Link returns the post detail URL.
func (p Post) Link() string {
	return postLink(p.ID)
}

// Visible reports whether the post may be shown to the general public at
// the given instant: published, not scheduled in the future, and not gated
// behind a hidden category. A post without a category is gated only by its
// own flags.
func (p Post) Visible(now time.Time) bool {
	if !p.Published || p.PubDate.After(now) {
		return false
	}
	return p.CategoryID == 0 || p.CategoryPublished
}

// VisibleTo reports whether the given principal may view the post. Authors
// always see their own posts, drafts and scheduled ones included.
func (p Post) VisibleTo(userID int64, now time.Time) bool {
	if userID != 0 && userID == p.AuthorID {
		return true
	}
	return p.Visible(now)
}

// Comment belongs to exactly one post and one author.
type Comment struct {
	ID        int64
	Text      string
	AuthorID  int64
	Author    string // username
	PostID    int64
	CreatedAt time.Time
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int
	Pages   int
	BaseURL string // listing URL without the page parameter
}

// HasPrev reports whether an earlier page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Pagination) HasNext() bool { return p.Page < p.Pages }
