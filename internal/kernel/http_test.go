package kernel

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/pkg/auth"
	"github.com/shashiranjanraj/cafehub/pkg/cache"
	"github.com/shashiranjanraj/cafehub/pkg/database"
	"github.com/shashiranjanraj/cafehub/pkg/metrics"
	"github.com/shashiranjanraj/cafehub/pkg/session"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  map[string]string
	Flashes []string `json:"flashes"`
}

const testAppKey = "kernel-test-key"

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newServerWith(t, auth.NewPBKDF2Hasher(1000))
}

func newServerWith(t *testing.T, hasher auth.PasswordHasher) *httptest.Server {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Cafe{}))

	k, err := NewHTTPKernel(Deps{
		DB:      db,
		Cache:   cache.NewMemoryStore(),
		Hasher:  hasher,
		AppKey:  testAppKey,
		Session: session.DefaultOptions(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(k.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: srv.URL, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) do(method, path, body string, header ...string) (*http.Response, envelope) {
	b.t.Helper()
	req, err := http.NewRequest(method, b.base+path, strings.NewReader(body))
	require.NoError(b.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	res, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer res.Body.Close()

	var env envelope
	_ = json.NewDecoder(res.Body).Decode(&env)
	return res, env
}

const joes = `{"name":"Joe's","map_url":"https://maps.example.com/j","img_url":"https://img.example.com/j.jpg",
"location":"Soho","has_wifi":"on","seats":"20-30","coffee_price":"£2.50"}`

func TestAdminFlowOverHTTP(t *testing.T) {
	srv := newServer(t)
	a, b := newBrowser(t, srv), newBrowser(t, srv)

	res, env := a.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "User created! Please sign in.", env.Message)
	res, _ = b.do(http.MethodPost, "/api/register", `{"email":"b@x.com","password":"pw2"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, _ = b.do(http.MethodPost, "/api/login", `{"email":"b@x.com","password":"pw2"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, env = b.do(http.MethodPost, "/api/cafes", joes)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Forbidden", env.Message)

	res, _ = a.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, env = a.do(http.MethodPost, "/api/cafes", joes)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var cafe models.Cafe
	require.NoError(t, json.Unmarshal(env.Data, &cafe))
	assert.True(t, cafe.HasWifi)
	assert.False(t, cafe.HasToilet)

	res, _ = a.do(http.MethodPost, "/api/cafes", joes)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, env = b.do(http.MethodGet, "/api/cafes", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []models.Cafe
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	var me struct {
		Authenticated bool `json:"authenticated"`
		Admin         bool `json:"admin"`
	}
	_, env = a.do(http.MethodGet, "/api/me", "")
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.True(t, me.Admin)
	_, env = b.do(http.MethodGet, "/api/me", "")
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.True(t, me.Authenticated)
	assert.False(t, me.Admin)
}

func TestDetailRequiresLogin(t *testing.T) {
	srv := newServer(t)
	admin, anon := newBrowser(t, srv), newBrowser(t, srv)

	admin.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw1"}`)
	admin.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw1"}`)
	res, _ := admin.do(http.MethodPost, "/api/cafes", joes)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, env := anon.do(http.MethodGet, "/api/cafes/1", "")
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Forbidden", env.Message)

	res, _ = anon.do(http.MethodGet, "/api/cafes/1", "", "Accept", "text/html")
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/api/login", res.Header.Get("Location"))
	_, env = anon.do(http.MethodGet, "/api/login", "")
	assert.Equal(t, []string{"Please log in to view cafe details!"}, env.Flashes)

	res, _ = admin.do(http.MethodGet, "/api/cafes/1", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = admin.do(http.MethodGet, "/api/cafes/99", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRemoveTwiceOverHTTP(t *testing.T) {
	srv := newServer(t)
	a := newBrowser(t, srv)
	a.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw1"}`)
	a.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw1"}`)
	a.do(http.MethodPost, "/api/cafes", joes)

	removed := testutil.ToFloat64(metrics.RegistryEvents.WithLabelValues("cafe.removed"))
	res, _ := a.do(http.MethodDelete, "/api/cafes/1", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, removed+1, testutil.ToFloat64(metrics.RegistryEvents.WithLabelValues("cafe.removed")))
	res, _ = a.do(http.MethodDelete, "/api/cafes/1", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, removed+1, testutil.ToFloat64(metrics.RegistryEvents.WithLabelValues("cafe.removed")))
}

func TestFormSubmission(t *testing.T) {
	srv := newServer(t)
	a := newBrowser(t, srv)
	a.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw1"}`)
	a.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw1"}`)

	form := url.Values{
		"name": {"Form Cafe"}, "map_url": {"https://m.example.com"}, "img_url": {"https://i.example.com"},
		"location": {"Leeds"}, "has_sockets": {"on"}, "seats": {"10"}, "coffee_price": {"£2"},
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/cafes", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	res, err := a.client.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)

	res, _ = a.do(http.MethodPost, "/api/cafes/1/delete", "", "Accept", "text/html")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
}

func TestAuthNotices(t *testing.T) {
	srv := newServer(t)
	a := newBrowser(t, srv)
	a.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw1"}`)

	res, env := a.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"other"}`)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "You've already signed up with that email, log in instead!", env.Message)

	res, wrongPw := a.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res, noUser := a.do(http.MethodPost, "/api/login", `{"email":"z@x.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, wrongPw.Message, noUser.Message)

	_, env = a.do(http.MethodGet, "/api/flashes", "")
	var flashes []string
	require.NoError(t, json.Unmarshal(env.Data, &flashes))
	assert.Len(t, flashes, 4)
	_, env = a.do(http.MethodGet, "/api/flashes", "")
	require.NoError(t, json.Unmarshal(env.Data, &flashes))
	assert.Empty(t, flashes)

	res, env = a.do(http.MethodPost, "/api/register", `{"email":"not-an-email","password":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newServer(t)
	a := newBrowser(t, srv)
	a.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw1"}`)
	a.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw1"}`)

	res, _ := a.do(http.MethodPost, "/api/logout", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	var me struct {
		Authenticated bool `json:"authenticated"`
	}
	_, env := a.do(http.MethodGet, "/api/me", "")
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.False(t, me.Authenticated)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)

	res, _ := b.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err := b.client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = b.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRouteTableNeedsNoResources(t *testing.T) {
	var names []string
	for _, rt := range RouteTable() {
		if rt.Name != "" {
			names = append(names, rt.Name)
		}
	}
	assert.ElementsMatch(t, []string{
		"cafes.index", "cafes.show", "cafes.store", "cafes.destroy", "cafes.destroy.form",
		"auth.register", "auth.login.view", "auth.login", "auth.logout", "auth.me", "flashes",
	}, names)
}

func TestNewHTTPKernelRequiresDeps(t *testing.T) {
	_, err := NewHTTPKernel(Deps{})
	assert.Error(t, err)
}

func TestOverlongBcryptPasswordIsValidationError(t *testing.T) {
	srv := newServerWith(t, auth.NewHasher("bcrypt"))
	a := newBrowser(t, srv)

	res, env := a.do(http.MethodPost, "/api/register",
		`{"email":"a@x.com","password":"`+strings.Repeat("a", 80)+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, env.Errors, "password")

	res, _ = a.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"`+strings.Repeat("a", 80)+`"}`)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSessionCookieNotSignedWithRawAppKey(t *testing.T) {
	srv := newServer(t)
	a := newBrowser(t, srv)
	a.do(http.MethodPost, "/api/register", `{"email":"a@x.com","password":"pw1"}`)

	forged, _, err := auth.NewTokenSigner(testAppKey).Issue(1, time.Hour)
	require.NoError(t, err)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	a.client.Jar.SetCookies(u, []*http.Cookie{{Name: session.DefaultOptions().CookieName, Value: forged, Path: "/"}})

	var me struct {
		Authenticated bool `json:"authenticated"`
	}
	_, env := a.do(http.MethodGet, "/api/me", "")
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.False(t, me.Authenticated)

	res, _ := a.do(http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	_, env = a.do(http.MethodGet, "/api/me", "")
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.True(t, me.Authenticated)
}
