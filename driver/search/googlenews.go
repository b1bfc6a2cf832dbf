package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"genai-news/config"
	"genai-news/domain"
	apperrors "genai-news/utils/errors"
	"genai-news/utils/html_parser"
	"genai-news/utils/httpclient"
)

const googleNewsService = "googlenews"

// GoogleNewsClient searches the public Google News RSS endpoint. It needs no API key.
type GoogleNewsClient struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	host       string
	language   string
	region     string
	logger     *slog.Logger
	now        func() time.Time
}

func NewGoogleNewsClient(cfg config.SearchConfig, httpCfg config.HTTPConfig, logger *slog.Logger) *GoogleNewsClient {
	return &GoogleNewsClient{
		httpClient: httpclient.WithUserAgent(httpclient.New(httpCfg, cfg.Timeout, nil), httpCfg.UserAgent),
		parser:     gofeed.NewParser(),
		host:       strings.TrimRight(cfg.GoogleNewsHost, "/"),
		language:   cfg.Language,
		region:     cfg.Region,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *GoogleNewsClient) SearchNews(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ClassifyTransportError(googleNewsService, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := apperrors.ClassifyHTTPResponse(googleNewsService, resp, c.now()); err != nil {
		return nil, err
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, domain.NewExternalError(googleNewsService, resp.StatusCode, fmt.Errorf("parse feed: %w", err))
	}

	results := make([]domain.SearchResult, 0, limit)
	for _, item := range feed.Items {
		if len(results) >= limit {
			break
		}
		results = append(results, toSearchResult(item))
	}

	c.logger.DebugContext(ctx, "google news search completed", "query", query, "results", len(results))
	return results, nil
}

func (c *GoogleNewsClient) searchURL(query string) string {
	lang := c.language
	region := strings.ToUpper(c.region)

	params := url.Values{}
	params.Set("q", query)
	if lang != "" && region != "" {
		params.Set("hl", lang+"-"+region)
		params.Set("gl", region)
		params.Set("ceid", region+":"+lang)
	}
	return c.host + "/rss/search?" + params.Encode()
}

func toSearchResult(item *gofeed.Item) domain.SearchResult {
	title, source := splitPublisher(strings.TrimSpace(item.Title))
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		source = strings.TrimSpace(item.Author.Name)
	}

	snippet := html_parser.StripTags(item.Description)
	// Google News descriptions repeat the headline and publisher
	if snippet == strings.TrimSpace(title+" "+source) {
		snippet = ""
	}

	date := strings.TrimSpace(item.Published)
	if item.PublishedParsed != nil {
		date = item.PublishedParsed.UTC().Format(time.RFC3339)
	}

	var thumbnail string
	if item.Image != nil {
		thumbnail = item.Image.URL
	}

	return domain.SearchResult{
		Title:     title,
		Snippet:   snippet,
		Link:      strings.TrimSpace(item.Link),
		Source:    source,
		Date:      date,
		Thumbnail: thumbnail,
	}
}

// splitPublisher separates the " - Publisher" suffix Google News appends to titles.
func splitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 || idx+3 >= len(title) {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}
