package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"aura/internal/adapters/config"
	"aura/internal/domain/news"
	"aura/internal/metrics"
	"aura/pkg/errors"
	"aura/pkg/logger"
	"aura/pkg/retry"
)

// Client fetches technology headlines per country from the news-search API.
// All responses are treated as untrusted and validated before use.
type Client struct {
	cfg        config.NewsAPIConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retry.Policy
	log        *logger.Logger
}

// NewClient creates a news-search client with request pacing and an
// explicit retry policy applied around each call
func NewClient(cfg config.NewsAPIConfig) *Client {
	perSecond := rate.Limit(float64(cfg.RatePerMin) / 60.0)
	if perSecond <= 0 {
		perSecond = rate.Limit(1)
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(perSecond, 1),
		retry:   retry.DefaultPolicy(),
		log:     logger.Get().With("component", "newsapi"),
	}
}

type searchResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []rawArticle `json:"articles"`
}

type rawArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// FetchCountry retrieves raw articles for one country. Any failure —
// timeout, connection error, HTTP status, malformed JSON — degrades to an
// empty slice so one country can never abort a cycle.
func (c *Client) FetchCountry(ctx context.Context, code, countryName string) []news.RawArticle {
	var articles []news.RawArticle

	err := c.retry.Do(ctx, func(ctx context.Context) error {
		fetched, err := c.search(ctx, countryName)
		if err != nil {
			return err
		}
		articles = fetched
		return nil
	})
	if err != nil {
		metrics.NewsAPICalls.WithLabelValues(code, "error").Inc()
		c.log.Warnw("News fetch failed, degrading to empty result",
			"country", code,
			"error", err,
		)
		return nil
	}

	metrics.NewsAPICalls.WithLabelValues(code, "success").Inc()
	c.log.Infow("Fetched headlines", "country", code, "count", len(articles))
	return articles
}

// FetchAll fetches every configured country through a bounded worker pool.
// Results are keyed by country code; a failed country yields an empty entry.
func (c *Client) FetchAll(ctx context.Context, countries map[string]string, concurrency int) map[string][]news.RawArticle {
	if concurrency <= 0 {
		concurrency = 3
	}

	type result struct {
		code     string
		articles []news.RawArticle
	}

	sem := make(chan struct{}, concurrency)
	results := make(chan result, len(countries))

	var wg sync.WaitGroup
	for code, name := range countries {
		wg.Add(1)
		go func(code, name string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results <- result{code: code}
				return
			}

			results <- result{code: code, articles: c.FetchCountry(ctx, code, name)}
		}(code, name)
	}

	wg.Wait()
	close(results)

	all := make(map[string][]news.RawArticle, len(countries))
	for r := range results {
		all[r.code] = r.articles
	}
	return all
}

// search performs one everything-endpoint request
func (c *Client) search(ctx context.Context, countryName string) ([]news.RawArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("technology AND %s", countryName))
	params.Set("language", c.cfg.Language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", c.cfg.PageSize))
	params.Set("apiKey", c.cfg.APIKey)

	endpoint := c.cfg.BaseURL + "/everything?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", "Aura Intelligence/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSourceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "status %d: %s", resp.StatusCode, string(body))
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	articles := make([]news.RawArticle, 0, len(response.Articles))
	for _, item := range response.Articles {
		articles = append(articles, news.RawArticle{
			Title:       item.Title,
			URL:         item.URL,
			SourceName:  item.Source.Name,
			PublishedAt: item.PublishedAt,
		})
	}
	return articles, nil
}
