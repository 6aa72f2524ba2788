package views

// Form data carried back into templates on validation failure, so the user
// never loses what they typed. Errors maps field name to message.

// PostForm holds the submitted fields of the post create/edit form.
type PostForm struct {
	Title      string
	Text       string
	PubDate    string // datetime-local value, "2006-01-02T15:04"
	CategoryID int64
	LocationID int64
	Published  bool
	Errors     map[string]string
}

// CommentForm holds the submitted comment text.
type CommentForm struct {
	Text   string
	Errors map[string]string
}

// RegisterForm holds the submitted registration fields.
type RegisterForm struct {
	Username string
	Email    string
	Errors   map[string]string
}

// LoginForm holds the submitted login fields.
type LoginForm struct {
	Username string
	Errors   map[string]string
}

// ProfileForm holds the editable fields of the viewer's own profile.
type ProfileForm struct {
	Email     string
	FirstName string
	LastName  string
	Errors    map[string]string
}

func fieldError(errs map[string]string, field string) string {
	if errs == nil {
		return ""
	}
	return errs[field]
}
