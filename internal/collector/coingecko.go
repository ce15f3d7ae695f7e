package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CoinGeckoFetcher implements Fetcher using the CoinGecko simple/price API.
type CoinGeckoFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewCoinGeckoFetcher creates a fetcher with a bounded timeout and optional proxy.
func NewCoinGeckoFetcher(baseURL string, timeout time.Duration, proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://api.coingecko.com"
	}
	return &CoinGeckoFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// geckoPrice is one entry of the simple/price response:
// {"bitcoin":{"usd":113000.5,"last_updated_at":1700000000}}
type geckoPrice struct {
	USD           decimal.Decimal `json:"usd"`
	LastUpdatedAt int64           `json:"last_updated_at"`
}

// FetchPrices fetches current USD prices for all ids in one request.
func (f *CoinGeckoFetcher) FetchPrices(ctx context.Context, ids []string) (map[string]PricePoint, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_last_updated_at", "true")
	u := fmt.Sprintf("%s/api/v3/simple/price?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coingecko read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw map[string]geckoPrice
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("coingecko decode: %w", err)
	}

	points := make(map[string]PricePoint, len(raw))
	for id, p := range raw {
		pt := PricePoint{Price: p.USD}
		if p.LastUpdatedAt > 0 {
			pt.LastUpdated = time.Unix(p.LastUpdatedAt, 0)
		}
		points[id] = pt
	}
	return points, nil
}
