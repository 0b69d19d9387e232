package nbp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gw-currency-trader/internal/models"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://api.nbp.pl/api"

	// the API refuses ranges longer than this
	maxRangeDays = 93

	fetchAttempts = 3
)

// RateSource yields bid/ask quotes against PLN.
type RateSource interface {
	FetchLatest(ctx context.Context) ([]models.CurrencyRate, error)
	FetchRange(ctx context.Context, start, end time.Time) ([]models.CurrencyRate, error)
}

type tableC struct {
	Table         string `json:"table"`
	No            string `json:"no"`
	EffectiveDate string `json:"effectiveDate"`
	Rates         []struct {
		Currency string          `json:"currency"`
		Code     string          `json:"code"`
		Bid      decimal.Decimal `json:"bid"`
		Ask      decimal.Decimal `json:"ask"`
	} `json:"rates"`
}

// errNoData is what the API answers with 404 when a range holds no
// publication day, e.g. a weekend.
var errNoData = errors.New("no tables published")

type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		retryDelay: time.Second,
		log:        log,
	}
}

func (c *Client) FetchLatest(ctx context.Context) ([]models.CurrencyRate, error) {
	const op = "nbp.FetchLatest"

	rates, err := c.fetch(ctx, c.baseURL+"/exchangerates/tables/C/?format=json")
	if err != nil && !errors.Is(err, errNoData) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rates, nil
}

// FetchRange splits [start, end] into chunks the API accepts.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) ([]models.CurrencyRate, error) {
	const op = "nbp.FetchRange"

	start, end = models.DateOf(start), models.DateOf(end)

	var all []models.CurrencyRate
	for from := start; !from.After(end); from = from.AddDate(0, 0, maxRangeDays) {
		to := from.AddDate(0, 0, maxRangeDays-1)
		if to.After(end) {
			to = end
		}

		url := fmt.Sprintf("%s/exchangerates/tables/C/%s/%s/?format=json",
			c.baseURL, from.Format(models.DateLayout), to.Format(models.DateLayout))

		rates, err := c.fetch(ctx, url)
		if err != nil {
			if errors.Is(err, errNoData) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		all = append(all, rates...)
	}
	return all, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]models.CurrencyRate, error) {
	var lastErr error
	for i := 0; i < fetchAttempts; i++ {
		if i > 0 {
			delay := c.retryDelay * time.Duration(1<<(i-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		rates, err := c.doFetch(ctx, url)
		if err == nil || errors.Is(err, errNoData) {
			return rates, err
		}
		lastErr = err
		c.log.Warn("nbp fetch attempt failed",
			slog.Int("attempt", i+1),
			slog.String("url", url),
			slog.String("error", err.Error()))
	}
	return nil, lastErr
}

func (c *Client) doFetch(ctx context.Context, url string) ([]models.CurrencyRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNoData
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tables []tableC
	if err := json.NewDecoder(resp.Body).Decode(&tables); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return toRates(tables)
}

func toRates(tables []tableC) ([]models.CurrencyRate, error) {
	var rates []models.CurrencyRate
	for _, table := range tables {
		day, err := models.ParseDate(table.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.No, err)
		}
		for _, r := range table.Rates {
			code, err := models.NormalizeCurrencyCode(r.Code)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", table.No, err)
			}
			rates = append(rates, models.CurrencyRate{
				Code:          code,
				EffectiveDate: day,
				Bid:           models.TruncateAmount(r.Bid),
				Ask:           models.TruncateAmount(r.Ask),
			})
		}
	}
	return rates, nil
}
