package blogicum

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogicum/views"
)

// Form binding and validation. Each bind reads the submitted values into the
// view-side form struct; each validate fills Errors per field and reports
// whether the form may be persisted. Invalid forms are re-rendered with the
// user's input intact, never rejected with a hard failure.

const maxTitleLen = 256

// pubDateLayout matches the datetime-local input value.
const pubDateLayout = "2006-01-02T15:04"

func bindPostForm(c echo.Context) views.PostForm {
	catID, _ := strconv.ParseInt(c.FormValue("category"), 10, 64)
	locID, _ := strconv.ParseInt(c.FormValue("location"), 10, 64)
	return views.PostForm{
		Title:      strings.TrimSpace(c.FormValue("title")),
		Text:       strings.TrimSpace(c.FormValue("text")),
		PubDate:    strings.TrimSpace(c.FormValue("pub_date")),
		CategoryID: catID,
		LocationID: locID,
		Published:  c.FormValue("is_published") != "",
	}
}

// validatePostForm checks the fields and returns the parsed publication
// time. Future dates are allowed: that is how scheduled posts work.
func validatePostForm(f *views.PostForm) (time.Time, bool) {
	f.Errors = map[string]string{}
	if f.Title == "" {
		f.Errors["title"] = "Title is required."
	} else if len(f.Title) > maxTitleLen {
		f.Errors["title"] = "Title must be at most 256 characters."
	}
	if f.Text == "" {
		f.Errors["text"] = "Text is required."
	}
	var pubDate time.Time
	if f.PubDate == "" {
		f.Errors["pub_date"] = "Publication date is required."
	} else {
		t, err := time.Parse(pubDateLayout, f.PubDate)
		if err != nil {
			f.Errors["pub_date"] = "Use the YYYY-MM-DDTHH:MM format."
		} else {
			pubDate = t.UTC()
		}
	}
	return pubDate, len(f.Errors) == 0
}

func bindCommentForm(c echo.Context) views.CommentForm {
	return views.CommentForm{Text: strings.TrimSpace(c.FormValue("text"))}
}

func validateCommentForm(f *views.CommentForm) bool {
	f.Errors = map[string]string{}
	if f.Text == "" {
		f.Errors["text"] = "Comment text is required."
	}
	return len(f.Errors) == 0
}

func bindRegisterForm(c echo.Context) (views.RegisterForm, string, string) {
	form := views.RegisterForm{
		Username: strings.TrimSpace(c.FormValue("username")),
		Email:    strings.TrimSpace(c.FormValue("email")),
	}
	return form, c.FormValue("password"), c.FormValue("password_confirm")
}

// registerFormError places a CreateUser error on the field it belongs to.
func registerFormError(f *views.RegisterForm, err error) {
	if f.Errors == nil {
		f.Errors = map[string]string{}
	}
	switch err {
	case ErrUsernameTaken, ErrInvalidUsername, ErrShortUsername, ErrLongUsername:
		f.Errors["username"] = err.Error()
	case ErrEmptyEmail, ErrInvalidEmail, ErrLongEmail:
		f.Errors["email"] = err.Error()
	case ErrShortPassword, ErrLongPassword:
		f.Errors["password"] = err.Error()
	default:
		f.Errors["username"] = "Could not create the account. Try again."
	}
}

func bindProfileForm(c echo.Context) views.ProfileForm {
	return views.ProfileForm{
		Email:     strings.TrimSpace(c.FormValue("email")),
		FirstName: strings.TrimSpace(c.FormValue("first_name")),
		LastName:  strings.TrimSpace(c.FormValue("last_name")),
	}
}
