package keybase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ledgersync/collector/pkg/utils"
)

const defaultBaseURL = "https://keybase.io"

// Client looks up identity avatars via the Keybase user lookup API. The
// lookup is strictly best-effort: any failure yields an empty string and a
// debug log, never an error.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// New returns a Client against the public Keybase API.
func New(logger *zap.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// NewWithBaseURL returns a Client against a custom endpoint.
func NewWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	c := New(logger)
	c.baseURL = baseURL
	return c
}

type lookupResponse struct {
	Them []struct {
		Pictures struct {
			Primary struct {
				URL string `json:"url"`
			} `json:"primary"`
		} `json:"pictures"`
	} `json:"them"`
}

// Avatar returns the primary picture URL for an identity key suffix, or ""
// when the identity is empty or the lookup fails in any way.
func (c *Client) Avatar(ctx context.Context, identity string) string {
	if identity == "" {
		return ""
	}

	query := url.Values{}
	query.Set("key_suffix", identity)
	query.Set("fields", "pictures")
	target := c.baseURL + "/_/api/1.0/user/lookup.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("Avatar lookup failed", zap.String("identity", identity), zap.Error(err))
		return ""
	}
	defer func() { _ = utils.DrainAndClose(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("Avatar lookup rejected", zap.String("identity", identity), zap.Int("status", resp.StatusCode))
		return ""
	}

	var lookup lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		c.logger.Debug("Avatar lookup decode failed", zap.String("identity", identity), zap.Error(err))
		return ""
	}
	if len(lookup.Them) == 0 {
		return ""
	}
	return lookup.Them[0].Pictures.Primary.URL
}
