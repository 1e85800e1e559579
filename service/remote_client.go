package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"article-store/config"
	"article-store/domain"
)

// remoteClient implements RemoteSource over HTTP.
type remoteClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewRemoteClient creates a RemoteSource with per-request timeouts from the
// configuration (connect and total).
func NewRemoteClient(cfg config.RemoteConfig, logger *slog.Logger) RemoteSource {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
	}

	return &remoteClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// NewRemoteClientWithHTTPClient creates a RemoteSource with a caller-supplied
// HTTP client. Used by tests.
func NewRemoteClientWithHTTPClient(httpClient *http.Client, baseURL string, logger *slog.Logger) RemoteSource {
	return &remoteClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "article-store/1.0",
		logger:     logger,
	}
}

// FetchDocument retrieves and decodes one article document.
func (c *remoteClient) FetchDocument(ctx context.Context, docURL string) (*domain.ArticleDocument, error) {
	body, err := c.get(ctx, docURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var doc domain.ArticleDocument
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode remote document", "url", docURL, "error", err)
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidDocument, docURL, err)
	}

	if doc.SourceURL == "" {
		doc.SourceURL = docURL
	}

	if err := doc.Validate(); err != nil {
		c.logger.WarnContext(ctx, "remote document failed validation", "url", docURL, "error", err)
		return nil, err
	}

	return &doc, nil
}

// topicIndex is the shape of a topic listing response.
type topicIndex struct {
	Articles []string `json:"articles"`
}

// FetchTopicIndex retrieves the candidate article URLs for a topic.
func (c *remoteClient) FetchTopicIndex(ctx context.Context, topic string) ([]string, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: no remote base URL configured", domain.ErrNetworkFailure)
	}

	indexURL := fmt.Sprintf("%s/topics/%s", c.baseURL, url.PathEscape(topic))

	body, err := c.get(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var index topicIndex
	if err := json.NewDecoder(body).Decode(&index); err != nil {
		return nil, fmt.Errorf("%w: decode topic index %s: %v", domain.ErrInvalidDocument, topic, err)
	}

	return index.Articles, nil
}

func (c *remoteClient) get(ctx context.Context, requestURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classifyNetworkError(err)
		c.logger.ErrorContext(ctx, "remote fetch failed", "url", requestURL, "error", err)
		return nil, classified
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteNotFound, requestURL)
	case resp.StatusCode >= 400:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", domain.ErrNetworkFailure, requestURL, resp.StatusCode)
	}

	return resp.Body, nil
}

// classifyNetworkError maps transport errors into the domain taxonomy.
// Timeouts carry both sentinels so callers can match either.
func classifyNetworkError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w: %v", domain.ErrNetworkFailure, domain.ErrNetworkTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %v", domain.ErrNetworkFailure, domain.ErrNetworkTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
}
