// Package search wraps the Tavily web search API and shapes its results into prompt context.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ideaforge-be/internal/cache"
	"ideaforge-be/internal/common"
	"ideaforge-be/internal/entities"
	"ideaforge-be/internal/logging"
)

const (
	DefaultMaxResults = 5

	// only the top results make it into the prompt
	topResults       = 3
	maxContentLength = 300

	insightsHeader = "Recent Market Insights:"
	noResultsText  = "No relevant market data found."
)

// Results is the prompt-ready text plus the citations it was built from
type Results struct {
	Text    string            `json:"text"`
	Sources []entities.Source `json:"sources"`
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type Client struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	logger   logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout)
func WithHTTPClient(c *http.Client) Option {
	return func(s *Client) { s.client = c }
}

// WithCache enables result caching. A nil cache leaves caching off.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Client) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// NewClient creates a Tavily client. An empty apiKey yields a client whose Search always returns nil.
func NewClient(apiKey, baseURL string, logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With("component", "search"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Search runs a web search. It returns nil when search is not configured or the call fails;
// failures are logged and never returned.
func (c *Client) Search(ctx context.Context, query string, maxResults int) *Results {
	if !c.Enabled() {
		c.logger.Warn(ctx, "TAVILY_API_KEY not set, web search disabled", "error", common.ErrConfigurationDegraded)
		return nil
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	key := cacheKey(query, maxResults)
	if c.cache != nil {
		var cached Results
		if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached
		}
	}

	raw, err := c.fetch(ctx, query, maxResults)
	if err != nil {
		c.logger.Error(ctx, "web search failed", "error", err)
		return nil
	}

	res := formatResults(raw)

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, key, res, c.cacheTTL); err != nil {
			c.logger.Warn(ctx, "failed to cache search results", "error", err)
		}
	}

	return res
}

func cacheKey(query string, maxResults int) string {
	return fmt.Sprintf("search:%d:%s", maxResults, query)
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) ([]tavilyResult, error) {
	body, err := json.Marshal(tavilyRequest{Query: query, MaxResults: maxResults, SearchDepth: "basic"})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tavily api error: status %d body %s", resp.StatusCode, string(msg))
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	return decoded.Results, nil
}

// formatResults keeps the top results, skips empty ones and builds the numbered insight sections
func formatResults(raw []tavilyResult) *Results {
	if len(raw) > topResults {
		raw = raw[:topResults]
	}

	sources := make([]entities.Source, 0, len(raw))
	sections := make([]string, 0, len(raw))

	for i, r := range raw {
		title := strings.TrimSpace(r.Title)
		content := strings.TrimSpace(r.Content)
		url := strings.TrimSpace(r.URL)
		if title == "" && content == "" {
			continue
		}

		if runes := []rune(content); len(runes) > maxContentLength {
			content = string(runes[:maxContentLength]) + "..."
		}

		section := fmt.Sprintf("%d. %s\n%s\n", i+1, title, content)
		if url != "" {
			section += fmt.Sprintf("Source: %s\n", url)
			label := title
			if label == "" {
				label = url
			}
			sources = append(sources, entities.Source{Title: label, URL: url})
		}
		sections = append(sections, section)
	}

	body := noResultsText
	if len(sections) > 0 {
		body = strings.Join(sections, "\n")
	}

	return &Results{
		Text:    strings.TrimSpace(insightsHeader + "\n" + body),
		Sources: sources,
	}
}
