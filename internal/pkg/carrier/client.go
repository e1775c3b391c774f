// internal/pkg/carrier/client.go
package carrier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/domain/pricing"
	"github.com/your-org/tireshop-backend/internal/domain/shipping"
)

// Address is the carrier API's address shape
type Address struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// RateRequest is the payload sent to the carrier rates endpoint
type RateRequest struct {
	Shipper   Address            `json:"shipper"`
	Recipient Address            `json:"recipient"`
	Packages  []shipping.Package `json:"packages"`
}

type rateResponse struct {
	Options []pricing.ShippingOption `json:"options"`
}

// Client looks up shipping rates from the external carrier. Responses
// are cached in Redis; any failure falls back to the static default
// options so checkout never blocks on the carrier.
type Client struct {
	config     *config.CarrierConfig
	httpClient *http.Client
	redis      *redis.Client
	logger     *logrus.Logger
}

// NewClient creates a carrier rate client
func NewClient(cfg *config.CarrierConfig, redisClient *redis.Client, logger *logrus.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		redis:  redisClient,
		logger: logger,
	}
}

// DefaultOptions are the fallback rates offered when the carrier is
// unreachable, prices in cents.
func DefaultOptions() []pricing.ShippingOption {
	return []pricing.ShippingOption{
		{ID: "standard", Name: "Standard Ground", Price: 999, EstimatedDelivery: "5-7 business days"},
		{ID: "express", Name: "Express", Price: 2499, EstimatedDelivery: "2-3 business days"},
	}
}

// GetRates returns shipping options for the given packages. Cache hit,
// carrier call, and fallback are tried in that order; the fallback path
// never returns an error.
func (c *Client) GetRates(ctx context.Context, recipient Address, packages []shipping.Package) []pricing.ShippingOption {
	req := RateRequest{
		Shipper:   c.shipperAddress(),
		Recipient: recipient,
		Packages:  packages,
	}

	cacheKey := c.cacheKey(req)
	if options, ok := c.cachedRates(ctx, cacheKey); ok {
		return options
	}

	options, err := c.fetchRates(ctx, req)
	if err != nil {
		c.logger.WithError(err).Warn("Carrier rate lookup failed, using default options")
		return DefaultOptions()
	}
	if len(options) == 0 {
		c.logger.Warn("Carrier returned no rate options, using default options")
		return DefaultOptions()
	}

	c.storeRates(ctx, cacheKey, options)
	return options
}

func (c *Client) shipperAddress() Address {
	return Address{
		Name:       c.config.ShipperName,
		Street:     c.config.ShipperStreet,
		City:       c.config.ShipperCity,
		State:      c.config.ShipperState,
		PostalCode: c.config.ShipperZip,
		Country:    c.config.ShipperCountry,
	}
}

func (c *Client) fetchRates(ctx context.Context, rateReq RateRequest) ([]pricing.ShippingOption, error) {
	if c.config.RatesURL == "" {
		return nil, fmt.Errorf("carrier rates URL not configured")
	}

	body, err := json.Marshal(rateReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.RatesURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("carrier returned status %d", resp.StatusCode)
	}

	var rateResp rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&rateResp); err != nil {
		return nil, fmt.Errorf("failed to decode carrier response: %w", err)
	}
	return rateResp.Options, nil
}

func (c *Client) cacheKey(req RateRequest) string {
	payload, _ := json.Marshal(req)
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("carrier_rates:%s", hex.EncodeToString(sum[:16]))
}

func (c *Client) cachedRates(ctx context.Context, key string) ([]pricing.ShippingOption, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var options []pricing.ShippingOption
	if err := json.Unmarshal([]byte(data), &options); err != nil {
		return nil, false
	}
	return options, true
}

func (c *Client) storeRates(ctx context.Context, key string, options []pricing.ShippingOption) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(options)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.config.RateCacheTTL).Err(); err != nil {
		c.logger.WithError(err).Debug("Failed to cache carrier rates")
	}
}
