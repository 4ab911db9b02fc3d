package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// Sender sends transactional emails. A nil Sender is a no-op.
type Sender interface {
	SendVerification(ctx context.Context, toEmail, verifyLink string) error
	SendInviteNotice(ctx context.Context, toEmail, teamName, eventTitle string) error
}

// BrevoClient sends emails via the Brevo API.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoAddress   `json:"sender"`
	To          []BrevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type BrevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@clubdesk.app"
}

func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoAddress{Email: c.from(), Name: "ClubDesk"},
		To:          []BrevoAddress{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send: status %d", resp.StatusCode)
	}
	return nil
}

// SendVerification emails the signup verification link.
func (c *BrevoClient) SendVerification(ctx context.Context, toEmail, verifyLink string) error {
	html := fmt.Sprintf(`<p>Welcome to ClubDesk!</p><p>Confirm your email to finish signing up:</p><p><a href="%s">Verify email</a></p><p>The link expires in 24 hours.</p>`, verifyLink)
	return c.send(ctx, toEmail, "Confirm your ClubDesk email", html)
}

// SendInviteNotice emails a team-invitation notification.
func (c *BrevoClient) SendInviteNotice(ctx context.Context, toEmail, teamName, eventTitle string) error {
	html := fmt.Sprintf(`<p>You have been invited to join team <b>%s</b> for <b>%s</b>.</p><p>Open your ClubDesk dashboard to respond.</p>`, teamName, eventTitle)
	return c.send(ctx, toEmail, "Team invitation on ClubDesk", html)
}
