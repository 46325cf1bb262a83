package lcd

import (
	"context"
	"fmt"
)

// MissedOracleVotes returns the validator's missed-vote counter for the
// current oracle slash window, as a decimal string.
func (c *Client) MissedOracleVotes(ctx context.Context, operatorAddr string) (string, error) {
	var resp struct {
		Height string `json:"height"`
		Result string `json:"result"`
	}
	path := fmt.Sprintf(missedVotesPath, operatorAddr)
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return "", fmt.Errorf("fetch missed oracle votes for %s: %w", operatorAddr, err)
	}
	return resp.Result, nil
}

// ExchangeRates returns the oracle's active denom→price table, keyed by
// denomination with decimal-string prices in the base denom.
func (c *Client) ExchangeRates(ctx context.Context) (map[string]string, error) {
	var resp struct {
		Result []Coin `json:"result"`
	}
	if err := c.getJSON(ctx, exchangeRatesPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	rates := make(map[string]string, len(resp.Result))
	for _, coin := range resp.Result {
		rates[coin.Denom] = coin.Amount
	}
	return rates, nil
}
