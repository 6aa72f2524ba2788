package blogicum

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogicum/views"
)

// handleIndex serves the public post listing: visible posts only, comment
// counts attached, newest publication first.
func (a *App) handleIndex(c echo.Context) error {
	filter := PostFilter{OnlyVisible: true, WithCommentCount: true}
	total, err := a.Store.CountPosts(filter)
	if err != nil {
		return err
	}
	pag, offset := paginate(pageParam(c), total, "/")
	filter.Limit, filter.Offset = postsPerPage, offset

	posts, err := a.Store.ListPosts(filter)
	if err != nil {
		return err
	}
	return Render(c, views.Index(a.Config.Site, a.viewer(c), posts, pag, CsrfToken(c)))
}

// handlePostDetail serves a single post. The author sees their post in any
// state; everyone else gets a 404 unless the visibility predicate holds, so
// hidden posts are indistinguishable from absent ones.
func (a *App) handlePostDetail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := a.Store.GetPost(id)
	if err != nil {
		return err
	}
	v := a.viewer(c)
	if !post.VisibleTo(v.ID, time.Now()) {
		return echo.ErrNotFound
	}
	comments, err := a.Store.ListComments(post.ID)
	if err != nil {
		return err
	}
	return Render(c, views.PostDetail(a.Config.Site, v, post, comments, views.CommentForm{}, CsrfToken(c)))
}

// handleCategory serves one category's listing. An unpublished category is
// itself a 404, and only visible posts appear under a published one.
func (a *App) handleCategory(c echo.Context) error {
	cat, err := a.Store.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	filter := PostFilter{OnlyVisible: true, WithCommentCount: true, CategoryID: cat.ID}
	total, err := a.Store.CountPosts(filter)
	if err != nil {
		return err
	}
	pag, offset := paginate(pageParam(c), total, cat.Link())
	filter.Limit, filter.Offset = postsPerPage, offset

	posts, err := a.Store.ListPosts(filter)
	if err != nil {
		return err
	}
	return Render(c, views.CategoryPage(a.Config.Site, a.viewer(c), cat, posts, pag, CsrfToken(c)))
}

// handleProfile serves an author page. The owner sees the unfiltered list,
// drafts and scheduled posts included; everyone else sees public posts only.
func (a *App) handleProfile(c echo.Context) error {
	author, err := a.Store.GetUserByUsername(c.Param("username"))
	if err != nil {
		return err
	}
	v := a.viewer(c)
	filter := PostFilter{
		OnlyVisible:      v.ID != author.ID,
		WithCommentCount: true,
		AuthorID:         author.ID,
	}
	total, err := a.Store.CountPosts(filter)
	if err != nil {
		return err
	}
	pag, offset := paginate(pageParam(c), total, profileURL(author.Username))
	filter.Limit, filter.Offset = postsPerPage, offset

	posts, err := a.Store.ListPosts(filter)
	if err != nil {
		return err
	}
	return Render(c, views.Profile(a.Config.Site, v, author, posts, pag, CsrfToken(c)))
}
