package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type sentMail struct {
	to, subject, replyTo, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, replyTo, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, replyTo, body})
	return nil
}

type testServer struct {
	app    *App
	router *gin.Engine
	clock  *manualClock
	mail   *fakeMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg, err := loadConfig(envMap(map[string]string{
		"ADMIN_USERNAME": "admin",
		"ADMIN_PASSWORD": "secret",
	}))
	require.NoError(t, err)

	portfolio, err := loadPortfolio(portfolioYAML)
	require.NoError(t, err)

	app := newApp(cfg, portfolio, newTestMetrics(t))
	clk := newManualClock()
	app.clock = clk
	mail := &fakeMailer{}
	app.mailer = mail
	t.Cleanup(app.sessions.Close)

	r := gin.New()
	require.NoError(t, app.routes(r))
	return &testServer{app: app, router: r, clock: clk, mail: mail}
}

// do sends a request, carrying cookies from earlier responses.
func (s *testServer) do(method, target string, body url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("DNT", "1")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type stateResponse struct {
	Current     TemplateID `json:"current"`
	Pending     TemplateID `json:"pending"`
	Loading     bool       `json:"loading"`
	RemainingMS int64      `json:"remaining_ms"`
}

func (s *testServer) state(t *testing.T, cookies []*http.Cookie) stateResponse {
	t.Helper()
	w := s.do(http.MethodGet, "/templates/state", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var st stateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	return st
}

func TestHomeRendersDefaultTemplate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, s.app.portfolio.Info.Name)
	assert.Contains(t, body, `class="theme-minimalist layout-classic"`)
	assert.Contains(t, body, `id="overlay" class="loading-overlay hidden"`)
	for _, r := range Registry() {
		assert.Contains(t, body, `/templates/`+string(r.ID))
	}
	assert.NotNil(t, cookieNamed(w, sessionCookie))
}

func TestSwitchFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	home := s.do(http.MethodGet, "/", nil, nil)
	cookies := []*http.Cookie{cookieNamed(home, sessionCookie)}
	require.NotNil(t, cookies[0])

	w := s.do(http.MethodPost, "/templates/matrix", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), LoadingMessage(Matrix))
	assert.Contains(t, w.Body.String(), "deco-rain")
	assert.Contains(t, w.Body.String(), `hx-trigger="load delay:3000ms"`)

	st := s.state(t, cookies)
	assert.Equal(t, stateResponse{Current: Minimalist, Pending: Matrix, Loading: true, RemainingMS: 3000}, st)

	// a reload mid-switch still shows the overlay over the old template
	w = s.do(http.MethodGet, "/", nil, cookies)
	assert.Contains(t, w.Body.String(), "theme-minimalist layout-classic")
	assert.Contains(t, w.Body.String(), `data-template="matrix" data-duration="3000"`)

	s.clock.Advance(3 * time.Second)

	st = s.state(t, cookies)
	assert.Equal(t, stateResponse{Current: Matrix}, st)

	w = s.do(http.MethodGet, "/", nil, cookies)
	assert.Contains(t, w.Body.String(), "theme-matrix layout-terminal")
	assert.Contains(t, w.Body.String(), "$ whoami")
}

func TestRapidSwitchesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	home := s.do(http.MethodGet, "/", nil, nil)
	cookies := []*http.Cookie{cookieNamed(home, sessionCookie)}

	for _, id := range []string{"neon", "paper", "space"} {
		w := s.do(http.MethodPost, "/templates/"+id, nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
	}
	s.clock.Advance(3 * time.Second)

	assert.Equal(t, Space, s.state(t, cookies).Current)
}

func TestSwitchToCurrentReturnsHiddenOverlay(t *testing.T) {
	s := newTestServer(t)
	home := s.do(http.MethodGet, "/", nil, nil)
	cookies := []*http.Cookie{cookieNamed(home, sessionCookie)}

	w := s.do(http.MethodPost, "/templates/minimalist", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "loading-overlay hidden")
	assert.Equal(t, 0, s.clock.Active())
}

func TestSwitchUnknownTemplateIs404(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/templates/geocities", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	a := []*http.Cookie{cookieNamed(s.do(http.MethodGet, "/", nil, nil), sessionCookie)}
	b := []*http.Cookie{cookieNamed(s.do(http.MethodGet, "/", nil, nil), sessionCookie)}

	s.do(http.MethodPost, "/templates/retro", nil, a)
	s.clock.Advance(3 * time.Second)

	assert.Equal(t, Retro, s.state(t, a).Current)
	assert.Equal(t, Minimalist, s.state(t, b).Current)
}

func TestListTemplatesAndPortfolioAPI(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/templates", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reg []Renderer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.Len(t, reg, len(AllTemplates))

	w = s.do(http.MethodGet, "/api/portfolio", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p Portfolio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, s.app.portfolio.Info.Name, p.Info.Name)
	assert.Len(t, p.Projects, len(s.app.portfolio.Projects))

	w = s.do(http.MethodGet, "/health", nil, nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStaticAssetsServed(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/static/css/site.css", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".loading-overlay")
}

func TestContactForm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/contact-form", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="fullName"`)

	w = s.do(http.MethodPost, "/contact", url.Values{
		"fullName": {"Ada\r\nBcc: evil@example.com"},
		"email":    {"ada@example.com"},
		"message":  {"Love the vaporwave theme"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you")

	require.Len(t, s.mail.sent, 1)
	sent := s.mail.sent[0]
	assert.Equal(t, s.app.portfolio.Info.Email, sent.to)
	assert.Equal(t, "ada@example.com", sent.replyTo)
	assert.NotContains(t, sent.subject, "\n")
	assert.Contains(t, sent.body, "Love the vaporwave theme")
}

func TestContactFormRequiresFields(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/contact", url.Values{"fullName": {"Ada"}}, nil)
	assert.Contains(t, w.Body.String(), "contact-result error")
	assert.Empty(t, s.mail.sent)
}

func TestAdminRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/admin/api/stats", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = s.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, cookieNamed(w, "admin_token"))
}

func TestAdminStatsIncludeSwitches(t *testing.T) {
	s := newTestServer(t)

	visitor := []*http.Cookie{cookieNamed(s.do(http.MethodGet, "/", nil, nil), sessionCookie)}
	s.do(http.MethodPost, "/templates/synthwave", nil, visitor)
	s.clock.Advance(3 * time.Second)

	login := s.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"secret"}}, nil)
	require.Equal(t, http.StatusFound, login.Code)
	admin := []*http.Cookie{cookieNamed(login, "admin_token")}
	require.NotNil(t, admin[0])

	w := s.do(http.MethodGet, "/admin/api/stats", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	var stats AdminStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalSwitches)
	assert.Equal(t, []TemplateStat{{Template: Synthwave, Switches: 1}}, stats.TopTemplates)
	assert.Equal(t, 1, stats.ActiveSessions)

	w = s.do(http.MethodGet, "/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "synthwave")
}
