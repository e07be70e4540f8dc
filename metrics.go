// metrics.go - Privacy-conscious visitor tracking and template switch analytics
package main

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"
)

const timestampLayout = "2006-01-02 15:04:05"

// VisitorMetric is one tracked page view
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type TemplateStat struct {
	Template TemplateID `json:"template"`
	Switches int64      `json:"switches"`
}

type AdminStats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalSwitches    int64           `json:"total_switches"`
	TopTemplates     []TemplateStat  `json:"top_templates"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
	ActiveSessions   int             `json:"active_sessions"`
}

// Metrics stores visits and committed template switches in sqlite.
type Metrics struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

func openMetrics(path, salt string) (*Metrics, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open metrics db: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	m := &Metrics{db: db, salt: salt, now: time.Now}
	if err := m.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func (m *Metrics) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hashed_ip TEXT NOT NULL,  -- Store hashed IP instead of raw IP
			user_agent TEXT,
			path TEXT,
			timestamp TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS template_switches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			from_template TEXT NOT NULL,
			to_template TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_switches_to ON template_switches(to_template)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate metrics db: %w", err)
		}
	}
	return nil
}

func (m *Metrics) Close() error {
	return m.db.Close()
}

// Hash IP address for privacy compliance (consistent per IP)
func (m *Metrics) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + m.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (m *Metrics) stamp() string {
	return m.now().UTC().Format(timestampLayout)
}

// TrackVisit records a page view with a hashed IP.
func (m *Metrics) TrackVisit(ip, userAgent, path string) error {
	_, err := m.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, m.hashIP(ip), userAgent, path, m.stamp())
	if err != nil {
		return fmt.Errorf("record visitor: %w", err)
	}
	return nil
}

// TrackSwitch records a committed template switch.
func (m *Metrics) TrackSwitch(sessionID string, from, to TemplateID) error {
	_, err := m.db.Exec(`
		INSERT INTO template_switches (session_id, from_template, to_template, timestamp)
		VALUES (?, ?, ?, ?)
	`, sessionID, string(from), string(to), m.stamp())
	if err != nil {
		return fmt.Errorf("record template switch: %w", err)
	}
	return nil
}

// Cleanup old visitor data for privacy compliance
func (m *Metrics) Cleanup(maxAge time.Duration) (int64, error) {
	cutoff := m.now().Add(-maxAge).UTC().Format(timestampLayout)

	var total int64
	for _, table := range []string{"visitors", "template_switches"} {
		result, err := m.db.Exec(`DELETE FROM `+table+` WHERE timestamp < ?`, cutoff)
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := result.RowsAffected()
		total += n
	}
	if total > 0 {
		log.Printf("Privacy cleanup: Removed %d records older than %s", total, maxAge)
	}
	return total, nil
}

// Stats gathers the admin dashboard numbers.
func (m *Metrics) Stats() (*AdminStats, error) {
	stats := &AdminStats{}
	now := m.now().UTC()
	today := now.Format("2006-01-02") + " 00:00:00"
	weekAgo := now.Add(-7 * 24 * time.Hour).Format(timestampLayout)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo}},
		{&stats.TotalSwitches, `SELECT COUNT(*) FROM template_switches`, nil},
	}
	for _, c := range counts {
		if err := m.db.QueryRow(c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats query %q: %w", c.query, err)
		}
	}

	top, err := m.topTemplates(10)
	if err != nil {
		return nil, err
	}
	stats.TopTemplates = top

	recent, err := m.RecentVisitors(50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

func (m *Metrics) topTemplates(limit int) ([]TemplateStat, error) {
	rows, err := m.db.Query(`
		SELECT to_template, COUNT(*) AS n
		FROM template_switches
		GROUP BY to_template
		ORDER BY n DESC, to_template ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top templates: %w", err)
	}
	defer rows.Close()

	var out []TemplateStat
	for rows.Next() {
		var s TemplateStat
		var id string
		if err := rows.Scan(&id, &s.Switches); err != nil {
			return nil, fmt.Errorf("scan template stat: %w", err)
		}
		s.Template = TemplateID(id)
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentVisitors returns the newest page views first.
func (m *Metrics) RecentVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := m.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp, _ = time.Parse(timestampLayout, ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Privacy-conscious visitor tracking middleware
func (m *Metrics) trackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip tracking for assets, admin pages and polling endpoints
		path := c.Request.URL.Path
		if c.Request.Method != "GET" ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/templates") ||
			strings.HasPrefix(path, "/health") ||
			strings.HasPrefix(path, "/favicon") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			if err := m.TrackVisit(ip, ua, path); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}
