package blogicum

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/blogicum/views"
)

// newTestApp wires an App with a throwaway database and the session
// middleware, but no CSRF layer, so form posts in tests stay simple.
func newTestApp(t *testing.T) *App {
	t.Helper()
	a := New(Config{
		DatabasePath:  filepath.Join(t.TempDir(), "blog.db"),
		MediaDir:      t.TempDir(),
		SessionSecret: "test-secret",
	})
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	a.Store = store
	a.taxonomy = newTaxonomyCache(store, a.Config.TaxonomyCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.Echo.HTTPErrorHandler = a.httpErrorHandler
	a.Echo.Use(session.Middleware(a.newSessionStore()))
	a.setupRoutes()
	return a
}

// newFullStackApp wires the complete middleware chain, CSRF included, for
// tests that exercise the forms exactly as a browser would.
func newFullStackApp(t *testing.T) *App {
	t.Helper()
	a := New(Config{
		DatabasePath:  filepath.Join(t.TempDir(), "blog.db"),
		MediaDir:      t.TempDir(),
		StaticDir:     t.TempDir(),
		SessionSecret: "test-secret",
	})
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	a.Store = store
	a.taxonomy = newTaxonomyCache(store, a.Config.TaxonomyCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

type cookieJar map[string]*http.Cookie

func (j cookieJar) update(res *http.Response) {
	for _, ck := range res.Cookies() {
		j[ck.Name] = ck
	}
}

func (j cookieJar) list() []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range j {
		out = append(out, ck)
	}
	return out
}

var csrfInputRe = regexp.MustCompile(`name="_csrf" value="([^"]*)"`)

func csrfFromPage(t *testing.T, body string) string {
	t.Helper()
	m := csrfInputRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no _csrf input in page")
	}
	return m[1]
}

func doRequest(a *App, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

// signUpAndLogin creates a user through the store and logs them in through
// the login form, returning the session cookies.
func signUpAndLogin(t *testing.T, a *App, username string) []*http.Cookie {
	t.Helper()
	if _, err := a.Store.CreateUser(username, username+"@example.com", "password1"); err != nil {
		t.Fatalf("CreateUser(%q) failed: %v", username, err)
	}
	rec := doRequest(a, http.MethodPost, "/auth/login/",
		url.Values{"username": {username}, "password": {"password1"}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login returned %d, want 303", rec.Code)
	}
	return rec.Result().Cookies()
}

func TestIndexShowsOnlyVisiblePosts(t *testing.T) {
	a := newTestApp(t)
	author := mustCreateUser(t, a.Store, "alice")

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	mustCreatePost(t, a.Store, views.Post{Title: "public-post", Text: "t", PubDate: yesterday, Published: true, AuthorID: author.ID})
	mustCreatePost(t, a.Store, views.Post{Title: "draft-post", Text: "t", PubDate: yesterday, Published: false, AuthorID: author.ID})
	mustCreatePost(t, a.Store, views.Post{Title: "future-post", Text: "t", PubDate: tomorrow, Published: true, AuthorID: author.ID})

	rec := doRequest(a, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("index returned %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "public-post") {
		t.Error("visible post missing from index")
	}
	if strings.Contains(body, "draft-post") {
		t.Error("draft leaked into index")
	}
	if strings.Contains(body, "future-post") {
		t.Error("scheduled post leaked into index")
	}
}

func TestPostDetailAuthorBypass(t *testing.T) {
	a := newTestApp(t)
	authorCookies := signUpAndLogin(t, a, "alice")
	strangerCookies := signUpAndLogin(t, a, "bob")
	author, _ := a.Store.GetUserByUsername("alice")

	draft := mustCreatePost(t, a.Store, views.Post{
		Title: "secret-draft", Text: "t",
		PubDate: time.Now().UTC().Add(-time.Hour), Published: false, AuthorID: author.ID,
	})
	target := postURL(draft)

	rec := doRequest(a, http.MethodGet, target, nil, authorCookies)
	if rec.Code != http.StatusOK {
		t.Errorf("author got %d for own draft, want 200", rec.Code)
	}
	rec = doRequest(a, http.MethodGet, target, nil, strangerCookies)
	if rec.Code != http.StatusNotFound {
		t.Errorf("stranger got %d for hidden post, want 404", rec.Code)
	}
	rec = doRequest(a, http.MethodGet, target, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("anonymous got %d for hidden post, want 404", rec.Code)
	}
}

func TestCommentCreateRequiresLogin(t *testing.T) {
	a := newTestApp(t)
	author := mustCreateUser(t, a.Store, "alice")
	post := mustCreatePost(t, a.Store, views.Post{
		Title: "p", Text: "t", PubDate: time.Now().UTC().Add(-time.Hour), Published: true, AuthorID: author.ID,
	})

	rec := doRequest(a, http.MethodPost, postURL(post)+"comment/",
		url.Values{"text": {"anonymous comment"}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("anonymous comment returned %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login/" {
		t.Errorf("redirect location = %q, want /auth/login/", loc)
	}
	n, err := a.Store.CountComments(post)
	if err != nil {
		t.Fatalf("CountComments failed: %v", err)
	}
	if n != 0 {
		t.Errorf("comment was created without a session: %d", n)
	}
}

func TestCommentCreateAndDelete(t *testing.T) {
	a := newTestApp(t)
	aliceCookies := signUpAndLogin(t, a, "alice")
	bobCookies := signUpAndLogin(t, a, "bob")
	alice, _ := a.Store.GetUserByUsername("alice")

	post := mustCreatePost(t, a.Store, views.Post{
		Title: "p", Text: "t", PubDate: time.Now().UTC().Add(-time.Hour), Published: true, AuthorID: alice.ID,
	})

	rec := doRequest(a, http.MethodPost, postURL(post)+"comment/",
		url.Values{"text": {"hello from bob"}}, bobCookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("comment create returned %d, want 303", rec.Code)
	}
	comments, err := a.Store.ListComments(post)
	if err != nil || len(comments) != 1 {
		t.Fatalf("comment count = %d (err %v), want 1", len(comments), err)
	}
	cm := comments[0]

	// Alice is not the comment author; deletion must bounce her back to the
	// post without touching the comment.
	deleteURL := postURL(post) + "delete_comment/" + strconv.FormatInt(cm.ID, 10) + "/"
	rec = doRequest(a, http.MethodPost, deleteURL, url.Values{}, aliceCookies)
	if rec.Code != http.StatusFound {
		t.Fatalf("non-author delete returned %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != postURL(post) {
		t.Errorf("redirect location = %q, want %q", loc, postURL(post))
	}
	if n, _ := a.Store.CountComments(post); n != 1 {
		t.Errorf("comment deleted by non-author, count = %d", n)
	}

	// Bob deletes his own comment.
	rec = doRequest(a, http.MethodPost, deleteURL, url.Values{}, bobCookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("author delete returned %d, want 303", rec.Code)
	}
	if n, _ := a.Store.CountComments(post); n != 0 {
		t.Errorf("comment survived author deletion, count = %d", n)
	}
}

func TestPostEditGate(t *testing.T) {
	a := newTestApp(t)
	signUpAndLogin(t, a, "alice")
	bobCookies := signUpAndLogin(t, a, "bob")
	alice, _ := a.Store.GetUserByUsername("alice")

	post := mustCreatePost(t, a.Store, views.Post{
		Title: "original-title", Text: "t",
		PubDate: time.Now().UTC().Add(-time.Hour), Published: true, AuthorID: alice.ID,
	})

	rec := doRequest(a, http.MethodPost, postURL(post)+"edit/", url.Values{
		"title":        {"hijacked"},
		"text":         {"x"},
		"pub_date":     {time.Now().UTC().Format(pubDateLayout)},
		"is_published": {"on"},
	}, bobCookies)
	if rec.Code != http.StatusFound {
		t.Fatalf("non-author edit returned %d, want 302", rec.Code)
	}
	got, err := a.Store.GetPost(post)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "original-title" {
		t.Errorf("non-author edit went through: title = %q", got.Title)
	}

	// Anonymous requests never reach the gate.
	rec = doRequest(a, http.MethodGet, postURL(post)+"edit/", nil, nil)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("anonymous edit returned %d, want 303 to login", rec.Code)
	}
}

func TestPostCreateFlow(t *testing.T) {
	a := newTestApp(t)
	cookies := signUpAndLogin(t, a, "alice")

	rec := doRequest(a, http.MethodPost, "/posts/create/", url.Values{
		"title":        {"my first post"},
		"text":         {"some text"},
		"pub_date":     {"2024-05-01T10:00"},
		"is_published": {"on"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("post create returned %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/profile/alice/" {
		t.Errorf("redirect location = %q, want /profile/alice/", loc)
	}

	posts, err := a.Store.ListPosts(PostFilter{})
	if err != nil || len(posts) != 1 {
		t.Fatalf("post count = %d (err %v), want 1", len(posts), err)
	}
	if posts[0].Title != "my first post" {
		t.Errorf("title = %q", posts[0].Title)
	}
	if !posts[0].Published {
		t.Error("post should be published")
	}
}

func TestPostCreateValidationRedisplay(t *testing.T) {
	a := newTestApp(t)
	cookies := signUpAndLogin(t, a, "alice")

	rec := doRequest(a, http.MethodPost, "/posts/create/", url.Values{
		"title":    {""},
		"text":     {"body without a title"},
		"pub_date": {"not-a-date"},
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("invalid form returned %d, want 200 redisplay", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Title is required.") {
		t.Error("missing title error not shown")
	}
	if !strings.Contains(body, "body without a title") {
		t.Error("submitted text lost on redisplay")
	}
	if n, _ := a.Store.CountPosts(PostFilter{}); n != 0 {
		t.Errorf("invalid form created a post: %d", n)
	}
}

func TestProfileShowsDraftsOnlyToOwner(t *testing.T) {
	a := newTestApp(t)
	aliceCookies := signUpAndLogin(t, a, "alice")
	alice, _ := a.Store.GetUserByUsername("alice")

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	mustCreatePost(t, a.Store, views.Post{Title: "published-entry", Text: "t", PubDate: yesterday, Published: true, AuthorID: alice.ID})
	mustCreatePost(t, a.Store, views.Post{Title: "draft-entry", Text: "t", PubDate: yesterday, Published: false, AuthorID: alice.ID})

	rec := doRequest(a, http.MethodGet, "/profile/alice/", nil, aliceCookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("own profile returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "draft-entry") {
		t.Error("owner cannot see their draft")
	}

	rec = doRequest(a, http.MethodGet, "/profile/alice/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("public profile returned %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "draft-entry") {
		t.Error("draft leaked to the public profile")
	}
	if !strings.Contains(body, "published-entry") {
		t.Error("published post missing from public profile")
	}
}

func TestCategoryPage(t *testing.T) {
	a := newTestApp(t)
	author := mustCreateUser(t, a.Store, "alice")
	open, err := a.Store.CreateCategory("Travel", "Places worth the trip.", "travel", true)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := a.Store.CreateCategory("Secret", "", "secret", false); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	mustCreatePost(t, a.Store, views.Post{
		Title: "travel-post", Text: "t", PubDate: time.Now().UTC().Add(-time.Hour),
		Published: true, AuthorID: author.ID, CategoryID: open,
	})

	rec := doRequest(a, http.MethodGet, "/category/travel/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("category page returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "travel-post") {
		t.Error("post missing from category page")
	}

	rec = doRequest(a, http.MethodGet, "/category/secret/", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("hidden category returned %d, want 404", rec.Code)
	}
	rec = doRequest(a, http.MethodGet, "/category/missing/", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown category returned %d, want 404", rec.Code)
	}
}

func TestRegistrationFlow(t *testing.T) {
	a := newTestApp(t)

	rec := doRequest(a, http.MethodPost, "/auth/registration/", url.Values{
		"username":         {"carol"},
		"email":            {"carol@example.com"},
		"password":         {"password1"},
		"password_confirm": {"password1"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("registration returned %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login/" {
		t.Errorf("redirect location = %q, want /auth/login/", loc)
	}
	if _, err := a.Store.GetUserByUsername("carol"); err != nil {
		t.Errorf("registered user not found: %v", err)
	}

	// Mismatched passwords redisplay the form without creating anyone.
	rec = doRequest(a, http.MethodPost, "/auth/registration/", url.Values{
		"username":         {"dave"},
		"email":            {"dave@example.com"},
		"password":         {"password1"},
		"password_confirm": {"different"},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mismatched passwords returned %d, want 200 redisplay", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Passwords do not match.") {
		t.Error("mismatch error not shown")
	}
	if _, err := a.Store.GetUserByUsername("dave"); err != ErrNotFound {
		t.Errorf("user created despite mismatch: %v", err)
	}
}

func TestProfileEdit(t *testing.T) {
	a := newTestApp(t)
	cookies := signUpAndLogin(t, a, "alice")

	rec := doRequest(a, http.MethodPost, "/profile/current/edit/", url.Values{
		"email":      {"alice@new.example.com"},
		"first_name": {"Alice"},
		"last_name":  {"Liddell"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("profile edit returned %d, want 303", rec.Code)
	}
	got, err := a.Store.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if got.Email != "alice@new.example.com" || got.FirstName != "Alice" {
		t.Errorf("profile not updated: %+v", got)
	}
}

// TestLogoutThroughCSRFMiddleware walks the login/logout flow with the full
// middleware chain. Every page carries the logout form in the nav, so the
// token rendered there must be the live one from the CSRF cookie.
func TestLogoutThroughCSRFMiddleware(t *testing.T) {
	a := newFullStackApp(t)
	if _, err := a.Store.CreateUser("alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	jar := cookieJar{}

	rec := doRequest(a, http.MethodGet, "/auth/login/", nil, jar.list())
	if rec.Code != http.StatusOK {
		t.Fatalf("login page returned %d", rec.Code)
	}
	jar.update(rec.Result())
	token := csrfFromPage(t, rec.Body.String())

	rec = doRequest(a, http.MethodPost, "/auth/login/",
		url.Values{"username": {"alice"}, "password": {"password1"}, "_csrf": {token}}, jar.list())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login returned %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	jar.update(rec.Result())

	rec = doRequest(a, http.MethodGet, "/", nil, jar.list())
	if rec.Code != http.StatusOK {
		t.Fatalf("index returned %d", rec.Code)
	}
	jar.update(rec.Result())
	token = csrfFromPage(t, rec.Body.String())
	if token == "" {
		t.Fatal("logout form on the index carries an empty token")
	}

	rec = doRequest(a, http.MethodPost, "/auth/logout/", url.Values{"_csrf": {token}}, jar.list())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout returned %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}
}

func TestPostEditKeepsUnpublishedCategory(t *testing.T) {
	a := newTestApp(t)
	cookies := signUpAndLogin(t, a, "alice")
	alice, _ := a.Store.GetUserByUsername("alice")

	cat, err := a.Store.CreateCategory("Travel", "", "", true)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	post := mustCreatePost(t, a.Store, views.Post{
		Title: "trip report", Text: "t", PubDate: time.Now().UTC().Add(-time.Hour),
		Published: true, AuthorID: alice.ID, CategoryID: cat,
	})

	if _, err := a.Store.db.Exec("UPDATE categories SET is_published = 0 WHERE id = ?", cat); err != nil {
		t.Fatalf("unpublish category: %v", err)
	}

	// Resubmitting the post unchanged must not fail on its own category.
	rec := doRequest(a, http.MethodPost, postURL(post)+"edit/", url.Values{
		"title":        {"trip report"},
		"text":         {"t"},
		"pub_date":     {time.Now().UTC().Add(-time.Hour).Format(pubDateLayout)},
		"category":     {strconv.FormatInt(cat, 10)},
		"is_published": {"on"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("edit returned %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	got, err := a.Store.GetPost(post)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.CategoryID != cat {
		t.Errorf("CategoryID = %d, want %d", got.CategoryID, cat)
	}
}

func TestPostCreateSeesFreshTaxonomy(t *testing.T) {
	a := newTestApp(t)
	cookies := signUpAndLogin(t, a, "alice")

	// Warm the cache before the category exists.
	if _, err := a.taxonomy.Categories(); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	cat, err := a.Store.CreateCategory("Fresh", "", "", true)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	rec := doRequest(a, http.MethodPost, "/posts/create/", url.Values{
		"title":        {"fresh post"},
		"text":         {"t"},
		"pub_date":     {time.Now().UTC().Format(pubDateLayout)},
		"category":     {strconv.FormatInt(cat, 10)},
		"is_published": {"on"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create returned %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	posts, err := a.Store.ListPosts(PostFilter{})
	if err != nil || len(posts) != 1 {
		t.Fatalf("post count = %d (err %v), want 1", len(posts), err)
	}
	if posts[0].CategoryID != cat {
		t.Errorf("CategoryID = %d, want %d", posts[0].CategoryID, cat)
	}
}

func TestFeedRendersDescriptions(t *testing.T) {
	a := newTestApp(t)
	author := mustCreateUser(t, a.Store, "alice")
	mustCreatePost(t, a.Store, views.Post{
		Title: "feed-post", Text: "**bold** body",
		PubDate: time.Now().UTC().Add(-time.Hour), Published: true, AuthorID: author.ID,
	})

	rec := doRequest(a, http.MethodGet, "/feed.xml", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed returned %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<description>") {
		t.Error("feed items carry no description")
	}
	if !strings.Contains(body, "&lt;strong&gt;bold&lt;/strong&gt;") {
		t.Errorf("description is not the rendered post body: %s", body)
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %q: %v", k, err)
		}
	}
	fw, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := fw.Write(fileContent); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func TestPostCreateRejectsBadImage(t *testing.T) {
	a := newTestApp(t)
	cookies := signUpAndLogin(t, a, "alice")

	body, ctype := multipartBody(t, map[string]string{
		"title":        "with image",
		"text":         "t",
		"pub_date":     time.Now().UTC().Format(pubDateLayout),
		"is_published": "on",
	}, "image", "junk.png", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/posts/create/", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("bad image returned %d, want 200 redisplay", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not a readable image") {
		t.Error("image field error not shown")
	}
	if n, _ := a.Store.CountPosts(PostFilter{}); n != 0 {
		t.Errorf("post created despite bad image: %d", n)
	}
}

func TestImageInfraErrorPropagates(t *testing.T) {
	a := newTestApp(t)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	body, ctype := multipartBody(t, nil, "image", "pic.png", pngBuf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/posts/create/", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	c := a.Echo.NewContext(req, httptest.NewRecorder())

	// A regular file where the media dir should be makes the write fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	a.Config.MediaDir = blocker

	_, err := a.savePostImage(c)
	if err == nil {
		t.Fatal("expected a write failure")
	}
	form := views.PostForm{Errors: map[string]string{}}
	if got := imageFormError(&form, err); got == nil {
		t.Error("infrastructure failure swallowed into a field error")
	}
	if len(form.Errors) != 0 {
		t.Errorf("unexpected field errors: %v", form.Errors)
	}

	form = views.PostForm{Errors: map[string]string{}}
	if got := imageFormError(&form, errBadImage); got != nil {
		t.Errorf("decode failure should become a field error, got %v", got)
	}
	if form.Errors["image"] == "" {
		t.Error("decode failure missing from the image field")
	}
}
