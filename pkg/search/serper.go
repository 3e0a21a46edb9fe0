// Package search retrieves fresh web context through the serper.dev API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/seilorhq/faithagent/pkg/logger"
)

const defaultAPIBase = "https://google.serper.dev"

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

type response struct {
	Organic []Result `json:"organic"`
}

// Client queries serper.dev. A missing API key or a failed request yields an
// absent result (ok=false), never an error: search context is optional
// everywhere it is used.
type Client struct {
	apiKey  string
	apiBase string
	http    *http.Client
}

func NewClient(apiKey, apiBase string, timeout time.Duration) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		apiBase: strings.TrimRight(apiBase, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Search runs a past-day web search for query. The bool return reports
// whether results are available.
func (c *Client) Search(ctx context.Context, query string) ([]Result, bool) {
	if c.apiKey == "" {
		return nil, false
	}

	body, err := json.Marshal(map[string]string{
		"q":   query,
		"tbs": "qdr:d",
	})
	if err != nil {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, false
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.WarnCF("search", "Search request failed",
			map[string]interface{}{"query": query, "error": err.Error()})
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.WarnCF("search", "Search returned non-OK status",
			map[string]interface{}{"query": query, "status": resp.StatusCode})
		return nil, false
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.WarnCF("search", "Failed to decode search response",
			map[string]interface{}{"query": query, "error": err.Error()})
		return nil, false
	}
	if len(parsed.Organic) == 0 {
		return nil, false
	}
	return parsed.Organic, true
}

// FormatResults renders hits as plain-text context for a prompt.
func FormatResults(results []Result) string {
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "%s\n%s\n", r.Title, r.Snippet)
		if r.Link != "" {
			fmt.Fprintf(&sb, "%s\n", r.Link)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
