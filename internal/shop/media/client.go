// Package media talks to the external image-hosting service used for product
// images. Uploads return a hosted URL; deletes are keyed by the folder-scoped
// public id embedded in that URL.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrDisabled is returned when no media service is configured.
var ErrDisabled = errors.New("media: service not configured")

// Service is what the product service needs from the image host.
type Service interface {
	// Upload sends the image payload (a data URI or remote URL) to the host
	// under the given folder and returns the hosted URL.
	Upload(ctx context.Context, folder, payload string) (string, error)

	// Delete removes a previously uploaded image by its public id.
	Delete(ctx context.Context, publicID string) error
}

// Client is an HTTP client for a cloudinary-compatible upload API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Config struct {
	BaseURL string // e.g. https://media.example.com/v1
	APIKey  string
	Timeout time.Duration // defaults to 10s
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Upload(ctx context.Context, folder, payload string) (string, error) {
	form := url.Values{}
	form.Set("file", payload)
	form.Set("folder", folder)

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := c.post(ctx, "/image/upload", form, &out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("media: upload response missing secure_url")
	}
	return out.SecureURL, nil
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	form := url.Values{}
	form.Set("public_id", publicID)
	return c.post(ctx, "/image/destroy", form, nil)
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("media: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("media: %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("media: %s: decode response: %w", endpoint, err)
		}
	}
	return nil
}

// PublicIDFromURL derives the folder-scoped public id from a hosted image URL,
// e.g. ".../products/abc123.png" -> "products/abc123".
func PublicIDFromURL(imageURL, folder string) string {
	base := path.Base(imageURL)
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return folder + "/" + base
}

// Disabled is a Service for deployments without an image host. Uploads fail
// with ErrDisabled; deletes are no-ops.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string) (string, error) { return "", ErrDisabled }
func (Disabled) Delete(context.Context, string) error                   { return nil }
