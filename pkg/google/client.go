// Package google provides a client for the Google Cloud Natural Language API.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://language.googleapis.com/v1"

// Entity categories returned by the API.
const (
	EntityPerson       = "PERSON"
	EntityLocation     = "LOCATION"
	EntityOrganization = "ORGANIZATION"
)

// Client performs Google Natural Language API operations.
type Client interface {
	AnalyzeEntities(ctx context.Context, text string) (*EntitiesResponse, error)
}

// EntitiesResponse is the response from analyzeEntities.
type EntitiesResponse struct {
	Entities []Entity `json:"entities"`
	Language string   `json:"language"`
}

// Entity is a named entity recognized in the input text.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Natural Language API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type analyzeEntitiesRequest struct {
	Document document `json:"document"`
}

type document struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

func (c *httpClient) AnalyzeEntities(ctx context.Context, text string) (*EntitiesResponse, error) {
	body, err := json.Marshal(analyzeEntitiesRequest{
		Document: document{
			Type:     "PLAIN_TEXT",
			Language: "en",
			Content:  text,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "google: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents:analyzeEntities", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "google: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("google: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result EntitiesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "google: unmarshal response")
	}

	return &result, nil
}
