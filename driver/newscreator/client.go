// ABOUTME: Client for the news-creator text generation API (Ollama compatible)
// ABOUTME: Used by the pipeline to translate article bodies into Japanese
package newscreator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"genai-news/config"
	"genai-news/domain"
	apperrors "genai-news/utils/errors"
	"genai-news/utils/httpclient"
)

const serviceName = "news-creator"

type payloadModel struct {
	Model     string       `json:"model"`
	Prompt    string       `json:"prompt"`
	Options   optionsModel `json:"options"`
	KeepAlive int          `json:"keep_alive"`
	Stream    bool         `json:"stream"`
}

type optionsModel struct {
	Stop          []string `json:"stop"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	NumPredict    int      `json:"num_predict"`
	RepeatPenalty float64  `json:"repeat_penalty"`
	NumCtx        int      `json:"num_ctx"`
}

type ollamaResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	DoneReason string `json:"done_reason"`
	Done       bool   `json:"done"`
}

var controlTokens = []string{
	"<|system|>", "<|user|>", "<|assistant|>",
	"<start_of_turn>", "<end_of_turn>", "<eos>",
}

type Client struct {
	httpClient *http.Client
	apiURL     string
	model      string
	logger     *slog.Logger
	now        func() time.Time
}

func NewClient(cfg config.NewsCreatorConfig, httpCfg config.HTTPConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpclient.New(httpCfg, cfg.Timeout, nil),
		apiURL:     strings.TrimRight(cfg.Host, "/") + cfg.APIPath,
		model:      cfg.Model,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateText sends a single non-streaming generation request.
func (c *Client) GenerateText(ctx context.Context, genReq domain.GenerationRequest) (*domain.GenerationResponse, error) {
	payload := payloadModel{
		Model:     c.model,
		Prompt:    genReq.Prompt,
		Stream:    false,
		KeepAlive: -1,
		Options: optionsModel{
			Temperature:   0.0,
			TopP:          0.9,
			NumPredict:    genReq.MaxTokens,
			RepeatPenalty: 1.0,
			NumCtx:        8192,
			Stop:          []string{"<|user|>", "<|system|>"},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "calling news-creator",
		"api_url", c.apiURL,
		"model", c.model,
		"max_tokens", genReq.MaxTokens)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ClassifyTransportError(serviceName, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if err := apperrors.ClassifyHTTPResponse(serviceName, resp, c.now()); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ClassifyTransportError(serviceName, fmt.Errorf("read body: %w", err))
	}

	var apiResponse ollamaResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, domain.NewExternalError(serviceName, resp.StatusCode, fmt.Errorf("parse response: %w", err))
	}

	if !apiResponse.Done {
		c.logger.WarnContext(ctx, "received incomplete response from news-creator", "done_reason", apiResponse.DoneReason)
	}

	text := cleanGeneratedText(apiResponse.Response)
	if text == "" {
		return nil, domain.ErrEmptyTranslation
	}

	return &domain.GenerationResponse{Text: text}, nil
}

// cleanGeneratedText drops leaked control tokens and thinking blocks while
// keeping paragraph breaks.
func cleanGeneratedText(content string) string {
	for _, token := range controlTokens {
		content = strings.ReplaceAll(content, token, "")
	}

	for {
		start := strings.Index(content, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "</think>")
		if end == -1 {
			content = content[:start]
			break
		}
		content = content[:start] + content[start+end+len("</think>"):]
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
