// Package amazon fetches affiliate product listings. Failures never
// propagate: the shop pages simply show fewer products, so the adapter logs
// and returns an empty list instead of an error.
package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Product is one affiliate listing as stored for the shop pages.
type Product struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Price         string `json:"price"`
	Image         string `json:"image"`
	AffiliateLink string `json:"affiliateLink"`
	Category      string `json:"category"`
}

// Config points the client at the product endpoint. The endpoint handles
// request signing itself; this client only speaks plain JSON to it.
type Config struct {
	Endpoint   string
	PartnerTag string
}

type Client struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func New(cfg Config, client *http.Client, log *zap.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{cfg: cfg, client: client, log: log}
}

type relatedResp struct {
	Products []Product `json:"products"`
}

// RelatedProducts returns products related to the given ASIN. On any
// failure it returns an empty slice.
func (c *Client) RelatedProducts(ctx context.Context, asin string) []Product {
	url := fmt.Sprintf("%s/related?asin=%s&tag=%s", c.cfg.Endpoint, asin, c.cfg.PartnerTag)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Warn("amazon request build failed", zap.String("asin", asin), zap.Error(err))
		return nil
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("amazon fetch failed", zap.String("asin", asin), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("amazon fetch failed", zap.String("asin", asin), zap.Int("status", resp.StatusCode))
		return nil
	}
	var data relatedResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.log.Warn("amazon response decode failed", zap.String("asin", asin), zap.Error(err))
		return nil
	}
	return data.Products
}
