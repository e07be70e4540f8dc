// config.go - Environment-driven settings
package main

import (
	"fmt"
	"log"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	DBPath          string
	SwitchDelay     time.Duration
	DefaultTemplate TemplateID
	SessionTTL      time.Duration
	MaxSessions     int

	AdminUsername string
	AdminPassword string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	ToEmail  string
}

// loadConfig reads settings through getenv (os.Getenv in main) and applies
// development defaults for anything unset.
func loadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT"),
		DBPath:          getenv("DB_PATH"),
		SwitchDelay:     defaultSwitchDelay,
		DefaultTemplate: Minimalist,
		SessionTTL:      24 * time.Hour,
		MaxSessions:     10000,
		AdminUsername:   getenv("ADMIN_USERNAME"),
		AdminPassword:   getenv("ADMIN_PASSWORD"),
		SMTPHost:        getenv("SMTP_HOST"),
		SMTPPort:        getenv("SMTP_PORT"),
		SMTPUser:        getenv("SMTP_USER"),
		SMTPPass:        getenv("SMTP_PASS"),
		ToEmail:         getenv("TO_EMAIL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "portfolio.db"
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == "" {
		cfg.SMTPPort = "587"
	}

	// Default credentials for development (set both in production)
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
		log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
		log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
	}

	if v := getenv("SWITCH_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("SWITCH_DELAY_MS: want a positive integer, got %q", v)
		}
		cfg.SwitchDelay = time.Duration(ms) * time.Millisecond
	}

	if v := getenv("DEFAULT_TEMPLATE"); v != "" {
		id, err := ParseTemplateID(v)
		if err != nil {
			return nil, fmt.Errorf("DEFAULT_TEMPLATE: %w", err)
		}
		cfg.DefaultTemplate = id
	}

	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("SESSION_TTL: want a positive duration, got %q", v)
		}
		cfg.SessionTTL = d
	}

	if v := getenv("MAX_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_SESSIONS: want a positive integer, got %q", v)
		}
		cfg.MaxSessions = n
	}

	return cfg, nil
}
