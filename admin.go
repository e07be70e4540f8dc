// admin.go - Admin console for visitor and template switch statistics
package main

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Visitor data older than this is purged
const metricsRetention = 365 * 24 * time.Hour

// Middleware to check admin authentication
func (a *App) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *App) clientHash(c *gin.Context) string {
	if a.metrics == nil {
		return "unknown"
	}
	return a.metrics.hashIP(c.ClientIP())
}

func (a *App) adminStats() (*AdminStats, error) {
	stats, err := a.metrics.Stats()
	if err != nil {
		return nil, err
	}
	stats.ActiveSessions = a.sessions.Len()
	return stats, nil
}

// Setup all admin routes
func (a *App) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.AdminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.AdminPassword)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", a.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", a.clientHash(c))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		log.Printf("Failed admin login attempt from %s", a.clientHash(c))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		if a.metrics == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{
				"error": "Metrics are disabled",
			})
			return
		}
		stats, err := a.adminStats()
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		if a.metrics == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics are disabled"})
			return
		}
		stats, err := a.adminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		if a.metrics == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{
				"error": "Metrics are disabled",
			})
			return
		}
		visitors, err := a.metrics.RecentVisitors(200)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		if a.metrics == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics are disabled"})
			return
		}
		removed, err := a.metrics.Cleanup(metricsRetention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		if a.metrics == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics are disabled"})
			return
		}
		stats, err := a.adminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", a.clientHash(c))
		c.JSON(http.StatusOK, stats)
	})
}
