package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

func firstName(name string) string {
	if name == "" {
		return "there"
	}
	return strings.Split(name, " ")[0]
}

func SendWelcomeEmail(email, name string) {
	go func() {
		subject := "Yerli-yə xoş gəlmisiniz!"
		body := fmt.Sprintf(`<h2>Welcome to Yerli, %s!</h2>
<p>Thank you for creating your account. You can now:</p>
<ul>
<li>Browse local service providers by category</li>
<li>Read and write reviews</li>
<li>Create your own business profile</li>
</ul>
<p>The Yerli Team</p>`, firstName(name))
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", email, err)
		}
	}()
}

func SendBusinessApprovedEmail(email, name, businessName string) {
	go func() {
		subject := fmt.Sprintf("%s is now live on Yerli", businessName)
		body := fmt.Sprintf(`<h2>Your business has been approved!</h2>
<p>Hi %s,</p>
<p><strong>%s</strong> has been reviewed and approved by our team. It is now
visible in the public listings and can receive reviews.</p>
<p>The Yerli Team</p>`, firstName(name), businessName)
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send approval email to %s: %v", email, err)
		}
	}()
}

func SendBusinessRejectedEmail(email, name, businessName, reason string) {
	go func() {
		subject := fmt.Sprintf("Update on your Yerli listing - %s", businessName)
		reasonBlock := ""
		if reason != "" {
			reasonBlock = fmt.Sprintf("<p><strong>Reason:</strong> %s</p>", reason)
		}
		body := fmt.Sprintf(`<h2>Your listing needs changes</h2>
<p>Hi %s,</p>
<p>We could not approve <strong>%s</strong> in its current form. Please review
your profile details and resubmit, or contact support for more information.</p>
%s
<p>The Yerli Team</p>`, firstName(name), businessName, reasonBlock)
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send rejection email to %s: %v", email, err)
		}
	}()
}

func SendPasswordResetEmail(email, name, resetToken, frontendURL string) {
	go func() {
		resetLink := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, resetToken)
		subject := "Reset Your Password - Yerli"
		body := fmt.Sprintf(`<h2>Password Reset Request</h2>
<p>Hi %s,</p>
<p>We received a request to reset your password. Click the link below to set a new password:</p>
<p><a href="%s" style="display:inline-block;padding:12px 24px;background:#C9A227;color:#1a1a2e;text-decoration:none;border-radius:8px;font-weight:bold;">Reset Password</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this, you can safely ignore this email.</p>
<p>The Yerli Team</p>`, firstName(name), resetLink)
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", email, err)
		}
	}()
}
