package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"genai-news/config"
	"genai-news/domain"
	apperrors "genai-news/utils/errors"
	"genai-news/utils/httpclient"
)

const serpAPIService = "serpapi"

type serpAPIResponse struct {
	Error       string          `json:"error"`
	NewsResults []serpAPIResult `json:"news_results"`
}

type serpAPIResult struct {
	Title     string          `json:"title"`
	Snippet   string          `json:"snippet"`
	Link      string          `json:"link"`
	Source    serpAPISource   `json:"source"`
	Date      string          `json:"date"`
	Thumbnail string          `json:"thumbnail"`
	Stories   []serpAPIResult `json:"stories"`
}

// serpAPISource accepts both the object form and the older plain string form.
type serpAPISource struct {
	Name string `json:"name"`
}

func (s *serpAPISource) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.Name = name
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	return nil
}

// SerpAPIClient queries the SerpAPI google_news engine.
type SerpAPIClient struct {
	httpClient *http.Client
	host       string
	apiKey     string
	language   string
	region     string
	logger     *slog.Logger
	now        func() time.Time
}

func NewSerpAPIClient(cfg config.SearchConfig, httpCfg config.HTTPConfig, logger *slog.Logger) *SerpAPIClient {
	return &SerpAPIClient{
		httpClient: httpclient.WithUserAgent(httpclient.New(httpCfg, cfg.Timeout, nil), httpCfg.UserAgent),
		host:       strings.TrimRight(cfg.SerpAPIHost, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		region:     cfg.Region,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *SerpAPIClient) SearchNews(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google_news")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("hl", strings.ToLower(c.language))
	}
	if c.region != "" {
		params.Set("gl", strings.ToLower(c.region))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ClassifyTransportError(serpAPIService, redactKey(err, c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	if err := apperrors.ClassifyHTTPResponse(serpAPIService, resp, c.now()); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ClassifyTransportError(serpAPIService, fmt.Errorf("read body: %w", err))
	}

	var decoded serpAPIResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domain.NewExternalError(serpAPIService, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if decoded.Error != "" && len(decoded.NewsResults) == 0 {
		// "no results" is reported through the error field with a 200
		if strings.Contains(strings.ToLower(decoded.Error), "hasn't returned any results") {
			return []domain.SearchResult{}, nil
		}
		return nil, domain.NewExternalError(serpAPIService, resp.StatusCode, fmt.Errorf("serpapi error: %s", decoded.Error))
	}

	results := make([]domain.SearchResult, 0, limit)
	for _, r := range flattenStories(decoded.NewsResults) {
		if len(results) >= limit {
			break
		}
		results = append(results, domain.SearchResult{
			Title:     strings.TrimSpace(r.Title),
			Snippet:   strings.TrimSpace(r.Snippet),
			Link:      strings.TrimSpace(r.Link),
			Source:    strings.TrimSpace(r.Source.Name),
			Date:      strings.TrimSpace(r.Date),
			Thumbnail: strings.TrimSpace(r.Thumbnail),
		})
	}

	c.logger.DebugContext(ctx, "serpapi search completed", "query", query, "results", len(results))
	return results, nil
}

// flattenStories expands story clusters, which carry no link of their own.
func flattenStories(in []serpAPIResult) []serpAPIResult {
	out := make([]serpAPIResult, 0, len(in))
	for _, r := range in {
		if r.Link == "" && len(r.Stories) > 0 {
			out = append(out, r.Stories...)
			continue
		}
		out = append(out, r)
	}
	return out
}

func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED"))
}
