package email

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// #endregion

// #region client

const defaultBaseURL = "https://api.resend.com"

// Resend delivers email through the Resend HTTP API.
type Resend struct {
	apiKey     string
	from       string
	to         string
	baseURL    string
	httpClient *http.Client
}

// NewResend creates a Resend client with a fixed sender and recipient.
func NewResend(apiKey, from, to string) *Resend {
	return &Resend{
		apiKey:     apiKey,
		from:       from,
		to:         to,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// newResendWithBaseURL exists for httptest servers.
func newResendWithBaseURL(apiKey, from, to, baseURL string, client *http.Client) *Resend {
	return &Resend{apiKey: apiKey, from: from, to: to, baseURL: baseURL, httpClient: client}
}

// #endregion client

// #region send

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one HTML email.
func (r *Resend) Send(ctx context.Context, subject, html string) error {
	body, err := json.Marshal(sendRequest{
		From:    r.from,
		To:      []string{r.to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("send email: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}

// #endregion send
