package blogicum

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/blogicum/views"
)

const sessionName = "blogicum_session"

// viewer resolves the current principal from the session cookie. The zero
// Viewer means anonymous.
func (a *App) viewer(c echo.Context) views.Viewer {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return views.Viewer{}
	}
	id, ok := sess.Values["user_id"].(int64)
	if !ok || id == 0 {
		return views.Viewer{}
	}
	username, _ := sess.Values["username"].(string)
	return views.Viewer{ID: id, Username: username}
}

func setUserSession(c echo.Context, u views.User) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["user_id"] = u.ID
	sess.Values["username"] = u.Username
	return sess.Save(c.Request(), c.Response())
}

func clearUserSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// requireAuth redirects anonymous requests to the login page. It makes no
// ownership decision; that stays with the handler resolving the resource.
func (a *App) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.viewer(c).LoggedIn() {
			return c.Redirect(http.StatusSeeOther, "/auth/login/")
		}
		return next(c)
	}
}

func (a *App) handleRegister(c echo.Context) error {
	if a.viewer(c).LoggedIn() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if c.Request().Method != http.MethodPost {
		return Render(c, views.Register(a.Config.Site, views.RegisterForm{}, CsrfToken(c)))
	}

	form, password, confirm := bindRegisterForm(c)
	if password != confirm {
		form.Errors = map[string]string{"password_confirm": "Passwords do not match."}
		return Render(c, views.Register(a.Config.Site, form, CsrfToken(c)))
	}
	if _, err := a.Store.CreateUser(form.Username, form.Email, password); err != nil {
		registerFormError(&form, err)
		return Render(c, views.Register(a.Config.Site, form, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/auth/login/")
}

func (a *App) handleLogin(c echo.Context) error {
	if a.viewer(c).LoggedIn() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if c.Request().Method != http.MethodPost {
		return Render(c, views.Login(a.Config.Site, views.LoginForm{}, CsrfToken(c)))
	}

	form := views.LoginForm{Username: c.FormValue("username")}
	if !a.loginLimiter.Check(c.RealIP()) {
		form.Errors = map[string]string{"form": "Too many login attempts. Try again later."}
		return RenderStatus(c, http.StatusTooManyRequests, views.Login(a.Config.Site, form, CsrfToken(c)))
	}
	user, err := a.Store.VerifyUser(form.Username, c.FormValue("password"))
	if err == ErrInvalidCredentials {
		a.loginLimiter.Record(c.RealIP())
		form.Errors = map[string]string{"form": err.Error()}
		return Render(c, views.Login(a.Config.Site, form, CsrfToken(c)))
	}
	if err != nil {
		return err
	}
	if err := setUserSession(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleProfileEdit lets the viewer change their own email and name. The
// target is always the session user, regardless of any URL tampering.
func (a *App) handleProfileEdit(c echo.Context) error {
	v := a.viewer(c)
	user, err := a.Store.GetUserByID(v.ID)
	if err != nil {
		return err
	}

	if c.Request().Method != http.MethodPost {
		form := views.ProfileForm{Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}
		return Render(c, views.ProfileEdit(a.Config.Site, v, form, CsrfToken(c)))
	}

	form := bindProfileForm(c)
	if err := a.Store.UpdateUser(v.ID, form.Email, form.FirstName, form.LastName); err != nil {
		switch err {
		case ErrEmptyEmail, ErrInvalidEmail, ErrLongEmail:
			form.Errors = map[string]string{"email": err.Error()}
			return Render(c, views.ProfileEdit(a.Config.Site, v, form, CsrfToken(c)))
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, profileURL(v.Username))
}
