package apiv1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/AuthorsHaven/app/controllers"
	"github.com/ManuelReschke/AuthorsHaven/app/repository"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/articles"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/auth"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/comments"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/database"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/mail"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/oauth"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/security"
)

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

type testEnv struct {
	app    *fiber.App
	tokens *security.TokenIssuer
	mail   *outbox
	social *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("sqlite not available: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	tokens, err := security.NewTokenIssuer("test-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	repos := repository.NewRepositories(db)
	box := &outbox{}
	authSvc := auth.NewService(repos.User, tokens, box, auth.Config{
		VerifyURL: "http://localhost/api/v1/users/confirm",
		ResetURL:  "http://localhost/reset-password",
	})

	social := &fakeProvider{name: "google", user: goth.User{
		UserID:    "g-42",
		Email:     "social@example.com",
		FirstName: "Sam",
		LastName:  "Social",
		NickName:  "sammy",
	}}
	providers := oauth.NewProviders(oauth.Config{BaseURL: "http://localhost"})
	providers.Register(social)

	app := fiber.New()
	RegisterHandlers(app.Group("/api/v1"), &Server{
		Articles: controllers.NewArticleController(articles.NewService(repos, nil)),
		Comments: controllers.NewCommentController(comments.NewService(repos)),
		Auth:     controllers.NewAuthController(authSvc),
		OAuth:    controllers.NewOAuthController(providers, authSvc, session.New()),
		Verifier: tokens,
	})

	return &testEnv{app: app, tokens: tokens, mail: box, social: social}
}

type response struct {
	status  int
	body    map[string]interface{}
	header  http.Header
	cookies []*http.Cookie
}

func (r response) data() map[string]interface{} {
	d, _ := r.body["data"].(map[string]interface{})
	return d
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string, cookies ...*http.Cookie) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode, header: resp.Header, cookies: resp.Cookies()}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/users/signup", map[string]string{
		"email":     username + "@example.com",
		"username":  username,
		"password":  "password123",
		"firstName": strings.ToUpper(username[:1]) + username[1:],
		"lastName":  "Writer",
	}, "")
	require.Equal(t, http.StatusCreated, res.status, res.body)
	token, _ := res.data()["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) createArticle(t *testing.T, token, title string) map[string]interface{} {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/article", map[string]interface{}{
		"title":       title,
		"description": "about " + title,
		"body":        "some words for " + title,
		"tags":        []string{"go", "api"},
	}, token)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	return res.data()
}

func TestPing(t *testing.T) {
	e := newTestEnv(t)
	res := e.do(t, http.MethodGet, "/api/v1/", nil, "")
	assert.Equal(t, http.StatusOK, res.status)
	assert.NotEmpty(t, res.body["message"])
}

func TestArticleScenario(t *testing.T) {
	e := newTestEnv(t)
	alice := e.signup(t, "alice")
	bobby := e.signup(t, "bobby")

	a := e.createArticle(t, alice, "A")
	e.createArticle(t, alice, "B")
	e.createArticle(t, alice, "C")
	assert.True(t, strings.HasPrefix(a["slug"].(string), "a-"))
	assert.Equal(t, "draft", a["status"])
	id := a["id"].(string)

	res := e.do(t, http.MethodPost, "/api/v1/article/"+id+"/rate", map[string]int{"rating": 3}, alice)
	require.Equal(t, http.StatusOK, res.status, res.body)
	assert.Equal(t, float64(3), res.data()["averageRating"])

	res = e.do(t, http.MethodPost, "/api/v1/article/"+id+"/rate", map[string]int{"rating": 5}, alice)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Your rating has been recorded", res.body["message"])
	assert.Equal(t, float64(5), res.data()["averageRating"])

	for _, token := range []string{alice, bobby} {
		res = e.do(t, http.MethodPost, "/api/v1/article/"+id+"/like", nil, token)
		require.Equal(t, http.StatusOK, res.status, res.body)
		assert.Equal(t, "Article has been liked", res.body["message"])

		user := res.data()["userData"].(map[string]interface{})
		likes := user["likes"].([]interface{})
		require.Len(t, likes, 1)
		assert.Equal(t, a["slug"], likes[0].(map[string]interface{})["slug"])
	}

	res = e.do(t, http.MethodPost, "/api/v1/article/"+id+"/unlike", nil, bobby)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "unlike article successful", res.body["message"])
	assert.Empty(t, res.data()["userData"].(map[string]interface{})["likes"])
}

func TestGetArticle(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "alice")
	a := e.createArticle(t, token, "Readable")

	res := e.do(t, http.MethodGet, "/api/v1/article/"+a["id"].(string), nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Article successfully retrieved", res.body["message"])
	data := res.data()
	assert.Equal(t, "Readable", data["title"])
	assert.NotContains(t, data, "id")
	assert.NotContains(t, data, "userId")
	assert.NotContains(t, data, "readTime")
	assert.NotContains(t, data, "subscriptionType")
	assert.Equal(t, "alice", data["author"].(map[string]interface{})["username"])
}

func TestGetArticleErrors(t *testing.T) {
	e := newTestEnv(t)

	res := e.do(t, http.MethodGet, "/api/v1/article/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, []interface{}{"articleId must be a valid uuid"}, res.body["errors"])

	res = e.do(t, http.MethodGet, "/api/v1/article/0b7c8a4e-2a47-4f5c-9a53-5a7c4d2e1f10", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Article does not exist", res.body["message"])
	assert.Equal(t, true, res.body["errors"])
}

func TestCreateArticleRequiresToken(t *testing.T) {
	e := newTestEnv(t)

	res := e.do(t, http.MethodPost, "/api/v1/article", map[string]string{"title": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "jwt must be provided", res.body["message"])

	res = e.do(t, http.MethodPost, "/api/v1/article", map[string]string{"title": "x"}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestCreateArticleMissingFields(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "alice")

	res := e.do(t, http.MethodPost, "/api/v1/article", map[string]string{"title": "only a title"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, articles.MsgMissingFields, res.body["message"])
	assert.ElementsMatch(t, []interface{}{"description is required", "body is required"}, res.body["errors"])
}

func TestRateErrors(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "alice")
	a := e.createArticle(t, token, "Rated")

	res := e.do(t, http.MethodPost, "/api/v1/article/"+a["id"].(string)+"/rate", map[string]int{"rating": 6}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)

	res = e.do(t, http.MethodPost, "/api/v1/article/0b7c8a4e-2a47-4f5c-9a53-5a7c4d2e1f10/rate", map[string]int{"rating": 4}, token)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, articles.MsgRateNotFound, res.body["message"])
}

func TestCommentsAndThreads(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "alice")
	first := e.createArticle(t, token, "First")
	second := e.createArticle(t, token, "Second")
	base := "/api/v1/article/" + first["id"].(string) + "/comments"

	res := e.do(t, http.MethodPost, base, map[string]string{"body": "nice read"}, token)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	commentID := res.data()["id"].(string)

	res = e.do(t, http.MethodPost, base+"/"+commentID+"/thread", map[string]string{"body": "agreed"}, token)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	assert.Equal(t, commentID, res.data()["parentId"])

	res = e.do(t, http.MethodPost, "/api/v1/article/"+second["id"].(string)+"/comments/"+commentID+"/thread",
		map[string]string{"body": "wrong article"}, token)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, comments.MsgCommentNotFound, res.body["message"])

	res = e.do(t, http.MethodPost, base, map[string]string{"body": ""}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)

	res = e.do(t, http.MethodPost, base, map[string]string{"body": "anon"}, "")
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestAccountFlow(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice")
	require.Len(t, e.mail.sent, 1)
	assert.Equal(t, mail.SubjectVerification, e.mail.sent[0].Subject)

	res := e.do(t, http.MethodPost, "/api/v1/users/signup", map[string]string{
		"email": "alice@example.com", "username": "alice", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, []interface{}{auth.MsgDuplicateUser}, res.body["errors"])

	res = e.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{"email": "nobody@example.com", "password": "password123"}, "")
	assert.Equal(t, http.StatusNotFound, res.status)

	res = e.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{"email": "alice@example.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, auth.MsgIncorrectPassword, res.body["message"])

	res = e.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{"email": "alice@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, res.status)
	user := res.data()["user"].(map[string]interface{})
	assert.Equal(t, false, user["isEmailVerified"])
	assert.NotContains(t, user, "password")

	verify, err := e.tokens.Issue(user["id"].(string), "alice@example.com", security.PurposeVerifyEmail)
	require.NoError(t, err)
	res = e.do(t, http.MethodGet, "/api/v1/users/confirm/"+verify, nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, true, res.data()["confirmed"])

	res = e.do(t, http.MethodGet, "/api/v1/users/confirm/not-a-token", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = e.do(t, http.MethodPost, "/api/v1/users/forgot-password", map[string]string{"email": "alice@example.com"}, "")
	require.Equal(t, http.StatusOK, res.status)
	reset := res.data()["token"].(string)
	assert.Equal(t, mail.SubjectPasswordReset, e.mail.sent[len(e.mail.sent)-1].Subject)

	res = e.do(t, http.MethodPost, "/api/v1/users/forgot-password", map[string]string{"email": "ghost@example.com"}, "")
	assert.Equal(t, http.StatusNotFound, res.status)

	res = e.do(t, http.MethodPatch, "/api/v1/users/reset-password/broken", map[string]string{"password": "newpassword1"}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, auth.MsgTokenMalformed, res.body["message"])

	res = e.do(t, http.MethodPatch, "/api/v1/users/reset-password/"+reset, map[string]string{"password": "newpassword1"}, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Password successfully reset", res.body["message"])

	res = e.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{"email": "alice@example.com", "password": "newpassword1"}, "")
	assert.Equal(t, http.StatusOK, res.status)
}

func TestInvalidJSONBody(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSocialLogin(t *testing.T) {
	e := newTestEnv(t)

	res := e.do(t, http.MethodGet, "/api/v1/users/auth/myspace", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)

	res = e.do(t, http.MethodGet, "/api/v1/users/auth/google/callback?code=good", nil, "")
	assert.Equal(t, http.StatusBadRequest, res.status)

	login := func() response {
		begin := e.do(t, http.MethodGet, "/api/v1/users/auth/google", nil, "")
		require.Equal(t, http.StatusTemporaryRedirect, begin.status)
		location, err := url.Parse(begin.header.Get("Location"))
		require.NoError(t, err)
		state := location.Query().Get("state")
		require.NotEmpty(t, state)

		return e.do(t, http.MethodGet, "/api/v1/users/auth/google/callback?code=good&state="+state, nil, "", begin.cookies...)
	}

	res = login()
	require.Equal(t, http.StatusCreated, res.status, res.body)
	assert.NotEmpty(t, res.data()["token"])

	res = login()
	require.Equal(t, http.StatusOK, res.status, res.body)
	user := res.data()["user"].(map[string]interface{})
	assert.Equal(t, "social@example.com", user["email"])
	assert.True(t, strings.HasPrefix(user["username"].(string), "sammy"))
}

// fakeProvider accepts the authorization code "good".
type fakeProvider struct {
	name string
	user goth.User
}

type fakeSession struct {
	AuthURL string `json:"auth_url"`
	Code    string `json:"code"`
}

func (s *fakeSession) GetAuthURL() (string, error) { return s.AuthURL, nil }

func (s *fakeSession) Marshal() string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func (s *fakeSession) Authorize(_ goth.Provider, params goth.Params) (string, error) {
	if params.Get("code") != "good" {
		return "", errors.New("bad code")
	}
	s.Code = params.Get("code")
	return "access-token", nil
}

func (p *fakeProvider) Name() string        { return p.name }
func (p *fakeProvider) SetName(name string) { p.name = name }
func (p *fakeProvider) Debug(bool)          {}

func (p *fakeProvider) BeginAuth(state string) (goth.Session, error) {
	return &fakeSession{AuthURL: "https://provider.test/auth?state=" + url.QueryEscape(state)}, nil
}

func (p *fakeProvider) UnmarshalSession(data string) (goth.Session, error) {
	s := &fakeSession{}
	err := json.Unmarshal([]byte(data), s)
	return s, err
}

func (p *fakeProvider) FetchUser(sess goth.Session) (goth.User, error) {
	if sess.(*fakeSession).Code == "" {
		return goth.User{}, errors.New("not authorized")
	}
	u := p.user
	u.Provider = p.name
	return u, nil
}

func (p *fakeProvider) RefreshToken(string) (*oauth2.Token, error) { return nil, errors.New("unsupported") }
func (p *fakeProvider) RefreshTokenAvailable() bool                { return false }
