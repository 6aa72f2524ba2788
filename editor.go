package blogicum

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogicum/views"
)

// Mutation handlers for posts and comments. Every update/delete resolves its
// target first and applies the ownership gate: a missing resource is a 404,
// an authenticated non-author is sent back to the post detail page with a
// temporary redirect and the mutation never runs.

// loadOwnPost resolves the :id post and checks ownership. When proceed is
// false the response has already been written (404 propagates as err, the
// non-author redirect as a committed 302).
func (a *App) loadOwnPost(c echo.Context) (post views.Post, proceed bool, err error) {
	id, err := paramID(c, "id")
	if err != nil {
		return views.Post{}, false, err
	}
	post, err = a.Store.GetPost(id)
	if err != nil {
		return views.Post{}, false, err
	}
	if a.viewer(c).ID != post.AuthorID {
		return views.Post{}, false, c.Redirect(http.StatusFound, postURL(post.ID))
	}
	return post, true, nil
}

// loadOwnComment resolves the :id/:comment_id pair and checks ownership.
// A comment whose stored post id does not match the URL's post id does not
// exist as far as the caller can tell.
func (a *App) loadOwnComment(c echo.Context) (cm views.Comment, proceed bool, err error) {
	postID, err := paramID(c, "id")
	if err != nil {
		return views.Comment{}, false, err
	}
	commentID, err := paramID(c, "comment_id")
	if err != nil {
		return views.Comment{}, false, err
	}
	cm, err = a.Store.GetComment(postID, commentID)
	if err != nil {
		return views.Comment{}, false, err
	}
	if a.viewer(c).ID != cm.AuthorID {
		return views.Comment{}, false, c.Redirect(http.StatusFound, postURL(postID))
	}
	return cm, true, nil
}

func (a *App) renderPostForm(c echo.Context, form views.PostForm, editing bool, action string) error {
	cats, err := a.taxonomy.Categories()
	if err != nil {
		return err
	}
	locs, err := a.taxonomy.Locations()
	if err != nil {
		return err
	}
	return Render(c, views.PostFormPage(a.Config.Site, a.viewer(c), form, cats, locs, editing, action, CsrfToken(c)))
}

// checkTaxonomy verifies that the selected category/location are real,
// published choices. The form only offers published ones; anything else is
// a tampered submission and comes back as a field error. The values the post
// already carries stay accepted even if they were unpublished since, so an
// edit never fails on a selection the author did not change.
func (a *App) checkTaxonomy(form *views.PostForm, keepCategory, keepLocation int64) error {
	if form.CategoryID != 0 && form.CategoryID != keepCategory {
		ok, err := a.allowedCategory(form.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			form.Errors["category"] = "Choose a category from the list."
		}
	}
	if form.LocationID != 0 && form.LocationID != keepLocation {
		ok, err := a.allowedLocation(form.LocationID)
		if err != nil {
			return err
		}
		if !ok {
			form.Errors["location"] = "Choose a location from the list."
		}
	}
	return nil
}

// allowedCategory reports whether id is a published category. On a miss it
// invalidates the cache and looks once more: the cached list may predate a
// taxonomy change the submission already reflects.
func (a *App) allowedCategory(id int64) (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		cats, err := a.taxonomy.Categories()
		if err != nil {
			return false, err
		}
		for _, cat := range cats {
			if cat.ID == id {
				return true, nil
			}
		}
		a.taxonomy.Invalidate()
	}
	return false, nil
}

// allowedLocation is the location counterpart of allowedCategory.
func (a *App) allowedLocation(id int64) (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		locs, err := a.taxonomy.Locations()
		if err != nil {
			return false, err
		}
		for _, loc := range locs {
			if loc.ID == id {
				return true, nil
			}
		}
		a.taxonomy.Invalidate()
	}
	return false, nil
}

func (a *App) handlePostCreate(c echo.Context) error {
	v := a.viewer(c)
	if c.Request().Method != http.MethodPost {
		form := views.PostForm{
			PubDate:   time.Now().Format(pubDateLayout),
			Published: true,
		}
		return a.renderPostForm(c, form, false, "/posts/create/")
	}

	form := bindPostForm(c)
	pubDate, ok := validatePostForm(&form)
	if err := a.checkTaxonomy(&form, 0, 0); err != nil {
		return err
	}
	image, err := a.savePostImage(c)
	if err := imageFormError(&form, err); err != nil {
		return err
	}
	if !ok || len(form.Errors) > 0 {
		return a.renderPostForm(c, form, false, "/posts/create/")
	}

	_, err = a.Store.CreatePost(views.Post{
		Title:      form.Title,
		Text:       form.Text,
		Image:      image,
		PubDate:    pubDate,
		Published:  form.Published,
		AuthorID:   v.ID,
		CategoryID: form.CategoryID,
		LocationID: form.LocationID,
	})
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, profileURL(v.Username))
}

func (a *App) handlePostEdit(c echo.Context) error {
	post, proceed, err := a.loadOwnPost(c)
	if !proceed {
		return err
	}
	action := postURL(post.ID) + "edit/"

	if c.Request().Method != http.MethodPost {
		form := views.PostForm{
			Title:      post.Title,
			Text:       post.Text,
			PubDate:    post.PubDate.Format(pubDateLayout),
			CategoryID: post.CategoryID,
			LocationID: post.LocationID,
			Published:  post.Published,
		}
		return a.renderPostForm(c, form, true, action)
	}

	form := bindPostForm(c)
	pubDate, ok := validatePostForm(&form)
	if err := a.checkTaxonomy(&form, post.CategoryID, post.LocationID); err != nil {
		return err
	}
	image, err := a.savePostImage(c)
	if err := imageFormError(&form, err); err != nil {
		return err
	}
	if !ok || len(form.Errors) > 0 {
		return a.renderPostForm(c, form, true, action)
	}
	if image == "" {
		image = post.Image // no new upload keeps the old one
	} else if post.Image != "" {
		a.removeMedia(post.Image)
	}

	post.Title = form.Title
	post.Text = form.Text
	post.Image = image
	post.PubDate = pubDate
	post.Published = form.Published
	post.CategoryID = form.CategoryID
	post.LocationID = form.LocationID
	if err := a.Store.UpdatePost(post); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postURL(post.ID))
}

func (a *App) handlePostDelete(c echo.Context) error {
	post, proceed, err := a.loadOwnPost(c)
	if !proceed {
		return err
	}
	if c.Request().Method != http.MethodPost {
		return Render(c, views.ConfirmDeletePost(a.Config.Site, a.viewer(c), post, CsrfToken(c)))
	}
	if err := a.Store.DeletePost(post.ID); err != nil {
		return err
	}
	if post.Image != "" {
		a.removeMedia(post.Image)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleCommentCreate(c echo.Context) error {
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

	form := bindCommentForm(c)
	if !validateCommentForm(&form) {
		comments, err := a.Store.ListComments(post.ID)
		if err != nil {
			return err
		}
		return Render(c, views.PostDetail(a.Config.Site, v, post, comments, form, CsrfToken(c)))
	}
	if _, err := a.Store.CreateComment(post.ID, v.ID, form.Text); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postURL(post.ID))
}

func (a *App) handleCommentEdit(c echo.Context) error {
	cm, proceed, err := a.loadOwnComment(c)
	if !proceed {
		return err
	}
	if c.Request().Method != http.MethodPost {
		form := views.CommentForm{Text: cm.Text}
		return Render(c, views.CommentFormPage(a.Config.Site, a.viewer(c), cm, form, CsrfToken(c)))
	}

	form := bindCommentForm(c)
	if !validateCommentForm(&form) {
		return Render(c, views.CommentFormPage(a.Config.Site, a.viewer(c), cm, form, CsrfToken(c)))
	}
	if err := a.Store.UpdateComment(cm.ID, form.Text); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postURL(cm.PostID))
}

func (a *App) handleCommentDelete(c echo.Context) error {
	cm, proceed, err := a.loadOwnComment(c)
	if !proceed {
		return err
	}
	if c.Request().Method != http.MethodPost {
		return Render(c, views.ConfirmDeleteComment(a.Config.Site, a.viewer(c), cm, CsrfToken(c)))
	}
	if err := a.Store.DeleteComment(cm.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postURL(cm.PostID))
}
