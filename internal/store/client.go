// Package store talks to the Deckhand plugin store over HTTPS.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/deckhandapp/deckhand/internal/apperrors"
	"github.com/deckhandapp/deckhand/internal/httpclient"
)

// DefaultBaseURL is the production plugin store endpoint.
const DefaultBaseURL = "https://store.deckhand.app/api/v1"

// Plugin is a single store listing.
type Plugin struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Downloads   int    `json:"downloads"`
}

type listResponse struct {
	Plugins []Plugin `json:"plugins"`
	Total   int      `json:"total"`
}

type errorEnvelope struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type Client struct {
	baseURL string
	token   string
}

// NewClient builds a store client. token may be empty for anonymous
// browsing; authenticated endpoints will return an error without it.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, token: token}
}

// ListPlugins fetches the store catalog. query is an optional search
// term; empty lists everything.
func (c *Client) ListPlugins(ctx context.Context, query string) ([]Plugin, error) {
	endpoint := c.baseURL + "/plugins"
	if query != "" {
		endpoint += "?q=" + url.QueryEscape(query)
	}

	body, resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStoreError(resp.StatusCode, resp.Status, parseErrorDetails(body))
	}

	var result listResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.New(
			apperrors.KindTerminal,
			"The plugin store returned an unreadable catalog.",
			fmt.Errorf("failed to decode catalog: %w", err),
		)
	}

	slog.Debug("store catalog fetched", "status", resp.Status, "plugins", len(result.Plugins), "total", result.Total)
	return result.Plugins, nil
}

// GetPlugin fetches a single listing by id.
func (c *Client) GetPlugin(ctx context.Context, id string) (*Plugin, error) {
	if id == "" {
		return nil, fmt.Errorf("plugin id is empty")
	}

	body, resp, err := c.get(ctx, c.baseURL+"/plugins/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStoreError(resp.StatusCode, resp.Status, parseErrorDetails(body))
	}

	var result Plugin
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.New(
			apperrors.KindTerminal,
			"The plugin store returned an unreadable listing.",
			fmt.Errorf("failed to decode listing: %w", err),
		)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	client := httpclient.GetDefaultClient()
	body, resp, err := httpclient.DoAndRead(client, req)
	if err != nil {
		return nil, nil, apperrors.New(
			apperrors.KindTransient,
			"The plugin store request failed due to a temporary network error.",
			fmt.Errorf("request failed: %w", err),
		)
	}
	return body, resp, nil
}

func parseErrorDetails(body []byte) errorDetails {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errorDetails{}
	}
	return envelope.Error
}

func classifyStoreError(statusCode int, status string, details errorDetails) error {
	cause := fmt.Errorf("store status=%s code=%s message=%s", status, details.Code, details.Message)

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return apperrors.New(
			apperrors.KindTerminal,
			"The plugin store rejected your token. Run 'deckhand store login' again.",
			cause,
		)
	case statusCode == http.StatusNotFound:
		return apperrors.New(
			apperrors.KindTerminal,
			"The plugin store has no such listing.",
			cause,
		)
	case statusCode == http.StatusTooManyRequests || statusCode >= 500:
		return apperrors.New(
			apperrors.KindTransient,
			"The plugin store is temporarily unavailable. Try again shortly.",
			cause,
		)
	default:
		return apperrors.New(
			apperrors.KindTerminal,
			"The plugin store request failed.",
			cause,
		)
	}
}
