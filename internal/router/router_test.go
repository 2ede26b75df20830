package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Zayan93/yatube/internal/cache"
	"github.com/Zayan93/yatube/internal/middleware"
	"github.com/Zayan93/yatube/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	e := echo.New()
	SetupMiddleware(e)
	if err := SetupRoutes(e, db, cache.NewMemoryCache(), zerolog.Nop()); err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}
	return e, db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return user
}

func createPost(t *testing.T, db *gorm.DB, authorID uint, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: authorID}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTSecret())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(e *echo.Echo, method, target, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestProtectedRouteRedirectsToLogin(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/new/", "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth/login/?next=%2Fnew%2F" {
		t.Fatalf("Location = %q, want /auth/login/?next=%%2Fnew%%2F", loc)
	}
}

func TestLoginFormEchoesNext(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/auth/login/?next=%2Fnew%2F", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["next"] != "/new/" {
		t.Fatalf("next = %v, want /new/", body["next"])
	}
}

func TestSignupAndLoginFlow(t *testing.T) {
	e, _ := newTestServer(t)

	form := url.Values{}
	form.Set("username", "natasha")
	form.Set("email", "natasha@example.com")
	form.Set("password", "secret1234")
	rec := doRequest(e, http.MethodPost, "/auth/signup", "", form)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	// The same username a second time is a conflict
	rec = doRequest(e, http.MethodPost, "/auth/signup", "", form)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", rec.Code)
	}

	login := url.Values{}
	login.Set("username", "natasha")
	login.Set("password", "secret1234")
	rec = doRequest(e, http.MethodPost, "/auth/login/?next=%2Fnew%2F", "", login)
	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/new/" {
		t.Fatalf("login redirect = %q, want /new/", loc)
	}

	rec = doRequest(e, http.MethodPost, "/auth/login/", "", url.Values{
		"username": {"natasha"}, "password": {"wrong"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad-password status = %d, want 401", rec.Code)
	}
}

func TestCreatePostRedirectsToIndex(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")

	form := url.Values{}
	form.Set("text", "hello feed")
	rec := doRequest(e, http.MethodPost, "/new/", tokenFor(t, author), form)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("Location = %q, want /", loc)
	}

	var n int64
	if err := db.Model(&models.Post{}).Where("author_id = ?", author.ID).Count(&n).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if n != 1 {
		t.Fatalf("post rows = %d, want 1", n)
	}
}

func TestCreatePostEmptyTextReturnsFormErrors(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")

	form := url.Values{}
	form.Set("text", "")
	rec := doRequest(e, http.MethodPost, "/new/", tokenFor(t, author), form)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	errs, ok := body["errors"].(map[string]interface{})
	if !ok || len(errs) == 0 {
		t.Fatalf("body %v carries no field errors", body)
	}
	if _, ok := errs["text"]; !ok {
		t.Fatalf("errors %v missing text field", errs)
	}

	var n int64
	if err := db.Model(&models.Post{}).Count(&n).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if n != 0 {
		t.Fatalf("invalid form created %d posts", n)
	}
}

func TestNonAuthorEditRedirectsToReadView(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")
	intruder := createUser(t, db, "intruder")
	post := createPost(t, db, author.ID, "original")

	target := fmt.Sprintf("/author/%d/edit/", post.ID)
	rec := doRequest(e, http.MethodGet, target, tokenFor(t, intruder), nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	want := fmt.Sprintf("/author/%d/", post.ID)
	if loc := rec.Header().Get(echo.HeaderLocation); loc != want {
		t.Fatalf("Location = %q, want %q", loc, want)
	}

	// The POST path must refuse the same way, leaving the text untouched
	form := url.Values{}
	form.Set("text", "hijacked")
	rec = doRequest(e, http.MethodPost, target, tokenFor(t, intruder), form)
	if rec.Code != http.StatusFound {
		t.Fatalf("edit POST status = %d, want 302", rec.Code)
	}
	var got models.Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("post lookup: %v", err)
	}
	if got.Text != "original" {
		t.Fatalf("post text = %q, non-author edit went through", got.Text)
	}
}

func TestAuthorEditUpdatesPost(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")
	post := createPost(t, db, author.ID, "original")

	form := url.Values{}
	form.Set("text", "revised")
	target := fmt.Sprintf("/author/%d/edit/", post.ID)
	rec := doRequest(e, http.MethodPost, target, tokenFor(t, author), form)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302: %s", rec.Code, rec.Body.String())
	}
	want := fmt.Sprintf("/author/%d/", post.ID)
	if loc := rec.Header().Get(echo.HeaderLocation); loc != want {
		t.Fatalf("Location = %q, want %q", loc, want)
	}

	var got models.Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("post lookup: %v", err)
	}
	if got.Text != "revised" {
		t.Fatalf("post text = %q, want revised", got.Text)
	}
}

func TestUnknownResourcesAre404(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")
	post := createPost(t, db, author.ID, "hello")

	for _, target := range []string{
		"/nobody/",
		fmt.Sprintf("/nobody/%d/", post.ID),
		"/author/999/",
		"/author/not-a-number/",
		"/group/no-such-slug/",
	} {
		rec := doRequest(e, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", target, rec.Code)
		}
	}
}

func TestCommentFlow(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	post := createPost(t, db, author.ID, "hello")

	target := fmt.Sprintf("/author/%d/comment", post.ID)
	form := url.Values{}
	form.Set("text", "nice one")
	rec := doRequest(e, http.MethodPost, target, tokenFor(t, reader), form)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302: %s", rec.Code, rec.Body.String())
	}
	want := fmt.Sprintf("/author/%d/", post.ID)
	if loc := rec.Header().Get(echo.HeaderLocation); loc != want {
		t.Fatalf("Location = %q, want %q", loc, want)
	}

	// An empty comment re-renders the form with errors instead of saving
	rec = doRequest(e, http.MethodPost, target, tokenFor(t, reader), url.Values{"text": {""}})
	if rec.Code != http.StatusOK {
		t.Fatalf("empty comment status = %d, want 200", rec.Code)
	}

	// Commenting a post that does not exist is a 404
	rec = doRequest(e, http.MethodPost, "/author/999/comment", tokenFor(t, reader), form)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing post comment status = %d, want 404", rec.Code)
	}

	var n int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&n).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if n != 1 {
		t.Fatalf("comment rows = %d, want 1", n)
	}
}

func TestDeleteComment(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	post := createPost(t, db, author.ID, "hello")
	comment := &models.Comment{PostID: post.ID, AuthorID: reader.ID, Text: "mine"}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	target := fmt.Sprintf("/author/%d/comment/%d", post.ID, comment.ID)

	// The post's author did not write the comment; they land on the read view
	rec := doRequest(e, http.MethodDelete, target, tokenFor(t, author), nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("non-author delete status = %d, want 302", rec.Code)
	}

	rec = doRequest(e, http.MethodDelete, target, tokenFor(t, reader), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204: %s", rec.Code, rec.Body.String())
	}
	var n int64
	if err := db.Model(&models.Comment{}).Count(&n).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if n != 0 {
		t.Fatalf("comment rows after delete = %d, want 0", n)
	}

	rec = doRequest(e, http.MethodDelete, target, tokenFor(t, reader), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestFollowRoutes(t *testing.T) {
	e, db := newTestServer(t)
	_ = createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	token := tokenFor(t, reader)

	edgeCount := func() int64 {
		var n int64
		if err := db.Model(&models.Follow{}).Count(&n).Error; err != nil {
			t.Fatalf("count follows: %v", err)
		}
		return n
	}

	rec := doRequest(e, http.MethodGet, "/author/follow/", token, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("follow status = %d, want 302: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/author/" {
		t.Fatalf("Location = %q, want /author/", loc)
	}
	if n := edgeCount(); n != 1 {
		t.Fatalf("follow edges = %d, want 1", n)
	}

	// Following again and following yourself both change nothing
	doRequest(e, http.MethodGet, "/author/follow/", token, nil)
	doRequest(e, http.MethodGet, "/reader/follow/", token, nil)
	if n := edgeCount(); n != 1 {
		t.Fatalf("follow edges after no-ops = %d, want 1", n)
	}

	rec = doRequest(e, http.MethodGet, "/author/unfollow/", token, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("unfollow status = %d, want 302", rec.Code)
	}
	if n := edgeCount(); n != 0 {
		t.Fatalf("follow edges after unfollow = %d, want 0", n)
	}

	// Unfollowing an author who was never followed is also a no-op
	rec = doRequest(e, http.MethodGet, "/author/unfollow/", token, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("repeat unfollow status = %d, want 302", rec.Code)
	}
}

func TestFollowIndexScopedToViewer(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")
	other := createUser(t, db, "other")
	reader := createUser(t, db, "reader")
	createPost(t, db, author.ID, "from author")
	createPost(t, db, other.ID, "from other")
	if err := db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}

	rec := doRequest(e, http.MethodGet, "/follow/", tokenFor(t, reader), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	page, ok := body["page"].(map[string]interface{})
	if !ok {
		t.Fatalf("body %v carries no page", body)
	}
	posts, ok := page["posts"].([]interface{})
	if !ok || len(posts) != 1 {
		t.Fatalf("followed feed posts = %v, want exactly the followed author's post", page["posts"])
	}
}

func TestDeletePostCascadesOverHTTP(t *testing.T) {
	e, db := newTestServer(t)
	author := createUser(t, db, "author")
	post := createPost(t, db, author.ID, "doomed")
	if err := db.Create(&models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "gone too"}).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	target := fmt.Sprintf("/author/%d/", post.ID)
	rec := doRequest(e, http.MethodDelete, target, tokenFor(t, author), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	var n int64
	if err := db.Model(&models.Comment{}).Count(&n).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if n != 0 {
		t.Fatalf("comments after post delete = %d, want 0", n)
	}
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
