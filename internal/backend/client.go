/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carouselstudio/internal/catalog"
	"carouselstudio/internal/domain"
)

// ErrNotFound is returned when the requested template does not exist on the
// remote catalog, regardless of the source (HTTP or Postgres).
var ErrNotFound = errors.New("template not found")

// Client is a minimal HTTP client for the shared template catalog API.
// It supports read-only operations used by the desktop app under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new catalog client. baseURL may include a trailing slash; it will be normalized.
// A non-positive timeout falls back to 10s.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// AllowInsecureTLS disables certificate verification, for development
// servers running with self-signed certificates.
func (c *Client) AllowInsecureTLS() {
	c.client.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
}

func (c *Client) doJSON(ctx context.Context, method, path string, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("server %s %s: %w", method, u.Path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// TemplateSummary is a minimal projection for listing.
type TemplateSummary struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	Style     string    `json:"style"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// ListTemplates returns the templates available on the server (read-only).
func (c *Client) ListTemplates(ctx context.Context) ([]TemplateSummary, error) {
	var list []TemplateSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/templates", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// TemplateEnvelope matches the server response for the latest version of a template.
type TemplateEnvelope struct {
	StableID   string          `json:"stable_id"`
	Version    int64           `json:"version"`
	CreatedAt  string          `json:"created_at"`
	Descriptor json.RawMessage `json:"descriptor"`
}

// GetTemplate fetches the latest version of a template by its stable id.
func (c *Client) GetTemplate(ctx context.Context, stableID string) (*TemplateEnvelope, error) {
	var env TemplateEnvelope
	path := fmt.Sprintf("/api/templates/%s", url.PathEscape(stableID))
	if err := c.doJSON(ctx, http.MethodGet, path, &env); err != nil {
		return nil, err
	}
	if env.StableID == "" {
		env.StableID = stableID
	}
	return &env, nil
}

// Decode parses the descriptor payload into a domain template. The template
// id defaults to the stable id when the descriptor does not carry one.
func (e *TemplateEnvelope) Decode() (domain.Template, error) {
	t, err := catalog.ParseDescriptor(e.Descriptor)
	if err != nil {
		return domain.Template{}, fmt.Errorf("template %s: %w", e.StableID, err)
	}
	if t.ID == "" {
		t.ID = e.StableID
	}
	return t, nil
}
