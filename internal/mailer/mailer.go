package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"chai-duka/internal/config"
	"chai-duka/internal/model"

	"github.com/rs/zerolog"
)

// Mailer delivers contact form submissions to the shop inbox.
type Mailer interface {
	// SendContact forwards a contact form submission as an email.
	SendContact(ctx context.Context, req *model.ContactRequest) error
}

// client implements Mailer against a Resend-compatible HTTP API.
type client struct {
	httpClient *http.Client
	cfg        config.MailConfig
	logger     zerolog.Logger
}

// NewClient creates a mail client.
func NewClient(cfg config.MailConfig, logger zerolog.Logger) Mailer {
	return &client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
		logger:     logger.With().Str("component", "mailer").Logger(),
	}
}

// SendContact forwards a contact form submission as an email.
func (c *client) SendContact(ctx context.Context, req *model.ContactRequest) error {
	if c.cfg.APIKey == "" || c.cfg.From == "" || c.cfg.To == "" {
		return fmt.Errorf("mail delivery is not configured")
	}

	payload := map[string]any{
		"from":     c.cfg.From,
		"to":       []string{c.cfg.To},
		"reply_to": req.Email,
		"subject":  "Contact form: " + req.Subject,
		"html": fmt.Sprintf("<p><strong>%s</strong> (%s) wrote:</p><p>%s</p>",
			html.EscapeString(req.Name),
			html.EscapeString(req.Email),
			html.EscapeString(req.Message)),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Msg("email request failed")
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("email provider rejected message")
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	c.logger.Info().Str("from", req.Email).Msg("contact message delivered")

	return nil
}
