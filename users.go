package blogicum

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/blogicum/views"
)

var (
	ErrUsernameTaken      = errors.New("a user with this username already exists")
	ErrInvalidUsername    = errors.New("username may contain only letters, digits, underscore and hyphen")
	ErrShortUsername      = errors.New("username must be at least 3 characters")
	ErrLongUsername       = errors.New("username must be at most 50 characters")
	ErrEmptyEmail         = errors.New("email must not be empty")
	ErrInvalidEmail       = errors.New("email does not look like an address")
	ErrLongEmail          = errors.New("email must be at most 255 characters")
	ErrShortPassword      = errors.New("password must be at least 6 characters")
	ErrLongPassword       = errors.New("password must be at most 128 characters")
	ErrInvalidCredentials = errors.New("unknown username or wrong password")
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateUsername(username string) error {
	switch {
	case len(username) < 3:
		return ErrShortUsername
	case len(username) > 50:
		return ErrLongUsername
	case !usernameRe.MatchString(username):
		return ErrInvalidUsername
	}
	return nil
}

func validateEmail(email string) error {
	switch {
	case email == "":
		return ErrEmptyEmail
	case len(email) > 255:
		return ErrLongEmail
	case !strings.Contains(email, "@"):
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < 6:
		return ErrShortPassword
	case len(password) > 128:
		return ErrLongPassword
	}
	return nil
}

// CreateUser validates the fields, checks username uniqueness, hashes the
// password with bcrypt and inserts the user.
func (s *Store) CreateUser(username, email, password string) (views.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateUsername(username); err != nil {
		return views.User{}, err
	}
	if err := validateEmail(email); err != nil {
		return views.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return views.User{}, err
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&n); err != nil {
		return views.User{}, err
	}
	if n > 0 {
		return views.User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return views.User{}, err
	}

	now := time.Now()
	res, err := s.db.Exec(`INSERT INTO users (username, email, password_hash, created_at)
        VALUES (?, ?, ?, ?)`, username, email, string(hash), timeToDB(now))
	if err != nil {
		return views.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return views.User{}, err
	}
	return views.User{ID: id, Username: username, Email: email, CreatedAt: now.UTC().Truncate(time.Second)}, nil
}

// VerifyUser checks a username/password pair and returns the user on
// success. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (s *Store) VerifyUser(username, password string) (views.User, error) {
	var u views.User
	var hash string
	row := s.db.QueryRow(`SELECT id, username, email, password_hash, first_name, last_name, created_at
        FROM users WHERE username = ?`, strings.TrimSpace(username))
	err := row.Scan(&u.ID, &u.Username, &u.Email, &hash, &u.FirstName, &u.LastName, scanTime(&u.CreatedAt))
	if err == sql.ErrNoRows {
		return views.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return views.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return views.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetUserByUsername returns a user without the password hash.
func (s *Store) GetUserByUsername(username string) (views.User, error) {
	var u views.User
	row := s.db.QueryRow(`SELECT id, username, email, first_name, last_name, created_at
        FROM users WHERE username = ?`, username)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, scanTime(&u.CreatedAt)); err != nil {
		return views.User{}, err
	}
	return u, nil
}

// GetUserByID returns a user without the password hash.
func (s *Store) GetUserByID(id int64) (views.User, error) {
	var u views.User
	row := s.db.QueryRow(`SELECT id, username, email, first_name, last_name, created_at
        FROM users WHERE id = ?`, id)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, scanTime(&u.CreatedAt)); err != nil {
		return views.User{}, err
	}
	return u, nil
}

// UpdateUser rewrites the profile fields a user may edit about themselves.
func (s *Store) UpdateUser(id int64, email, firstName, lastName string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE users SET email = ?, first_name = ?, last_name = ? WHERE id = ?`,
		email, strings.TrimSpace(firstName), strings.TrimSpace(lastName), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// DeleteUser removes a user; their posts and comments cascade away.
func (s *Store) DeleteUser(id int64) error {
	_, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}
