// app.go - App shell: wires content, sessions and metrics into a gin engine
package main

import (
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const sessionCookie = "portfolio_session"

type App struct {
	cfg        *Config
	portfolio  *Portfolio
	sessions   *SessionStore
	metrics    *Metrics
	clock      clock
	adminToken string
	mailer     mailer
}

func newApp(cfg *Config, portfolio *Portfolio, metrics *Metrics) *App {
	a := &App{
		cfg:        cfg,
		portfolio:  portfolio,
		metrics:    metrics,
		clock:      realClock{},
		adminToken: generateToken(),
		mailer:     smtpMailer{cfg: cfg},
	}
	a.sessions = NewSessionStore(cfg.MaxSessions, cfg.SessionTTL, a.newSwitcher)
	return a
}

func (a *App) newSwitcher(sessionID string) *Switcher {
	sw := NewSwitcher(a.cfg.DefaultTemplate, a.cfg.SwitchDelay)
	sw.clock = a.clock
	sw.OnSettle(func(from, to TemplateID) {
		if a.metrics == nil {
			return
		}
		if err := a.metrics.TrackSwitch(sessionID, from, to); err != nil {
			log.Printf("Error recording template switch: %v", err)
		}
	})
	return sw
}

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	return hex.EncodeToString(bytes)
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	if err := checkRegistry(tmpl); err != nil {
		return nil, fmt.Errorf("template registry: %w", err)
	}
	return tmpl, nil
}

// routes builds the gin engine with every page, API and admin route.
func (a *App) routes(r *gin.Engine) error {
	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))

	if a.metrics != nil {
		r.Use(a.metrics.trackingMiddleware())
	}

	r.GET("/", a.handleHome)
	r.GET("/templates", a.handleListTemplates)
	r.GET("/templates/state", a.handleSwitchState)
	r.POST("/templates/:id", a.handleSwitch)
	r.GET("/api/portfolio", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.portfolio)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	a.setupContactRoutes(r)
	a.setupAdminRoutes(r)
	return nil
}

// session returns the visitor's session, issuing a cookie for new ones.
func (a *App) session(c *gin.Context) *Session {
	id, _ := c.Cookie(sessionCookie)
	sess, created := a.sessions.Get(id)
	if created {
		c.SetCookie(sessionCookie, sess.ID, int(a.cfg.SessionTTL.Seconds()), "/", "", false, true)
	}
	return sess
}

func overlayFor(st SwitchState, delay time.Duration) Overlay {
	ov := NewOverlay(st.Pending, st.Loading, delay, newRand())
	if ov.Visible {
		ov.Remaining = st.Remaining.Milliseconds()
	}
	return ov
}

func (a *App) handleHome(c *gin.Context) {
	sess := a.session(c)
	st := sess.Switcher.State()

	renderer, ok := RendererFor(st.Current)
	if !ok {
		log.Printf("Session %s has unregistered template %q", sess.ID, st.Current)
		renderer, _ = RendererFor(a.cfg.DefaultTemplate)
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Portfolio": a.portfolio,
		"Renderer":  renderer,
		"Templates": Registry(),
		"State":     st,
		"Overlay":   overlayFor(st, sess.Switcher.Delay()),
	})
}

func (a *App) handleListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, Registry())
}

func (a *App) handleSwitchState(c *gin.Context) {
	st := a.session(c).Switcher.State()
	c.JSON(http.StatusOK, gin.H{
		"current":      st.Current,
		"pending":      st.Pending,
		"loading":      st.Loading,
		"remaining_ms": st.Remaining.Milliseconds(),
	})
}

// handleSwitch starts a template switch and returns the overlay fragment
// for HTMX to swap in.
func (a *App) handleSwitch(c *gin.Context) {
	id, err := ParseTemplateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	sess := a.session(c)
	if _, err := sess.Switcher.Switch(id); err != nil {
		if errors.Is(err, ErrSwitcherStopped) {
			c.JSON(http.StatusConflict, gin.H{"error": "session expired, reload the page"})
			return
		}
		log.Printf("Error switching template for %s: %v", sess.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not switch template"})
		return
	}

	st := sess.Switcher.State()
	c.HTML(http.StatusOK, "overlay", overlayFor(st, sess.Switcher.Delay()))
}
