// contact.go - HTMX contact form that mails the portfolio owner
package main

import (
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
)

type mailer interface {
	Send(to, subject, replyTo, body string) error
}

type smtpMailer struct {
	cfg *Config
}

func (m smtpMailer) Send(to, subject, replyTo, body string) error {
	if m.cfg.SMTPUser == "" || m.cfg.SMTPPass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.SMTPUser + "\r\n" +
		"Reply-To: " + replyTo + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	if err := smtp.SendMail(m.cfg.SMTPHost+":"+m.cfg.SMTPPort, auth, m.cfg.SMTPUser, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// header values must not smuggle extra headers in
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
}

func (a *App) setupContactRoutes(r *gin.Engine) {
	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
			"name":  a.portfolio.Info.Name,
		})
	})

	r.POST("/contact", func(c *gin.Context) {
		name := sanitizeHeader(c.PostForm("fullName"))
		email := sanitizeHeader(c.PostForm("email"))
		message := strings.TrimSpace(c.PostForm("message"))

		if name == "" || email == "" || message == "" {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please fill in your name, email and a message.",
			})
			return
		}

		to := a.cfg.ToEmail
		if to == "" {
			to = a.portfolio.Info.Email
		}

		body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

		if err := a.mailer.Send(to, "Portfolio Contact: "+name, email, body); err != nil {
			log.Printf("Error sending email: %v", err)
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		log.Printf("Contact email sent for %s", name)
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})
}
