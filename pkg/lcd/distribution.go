package lcd

import (
	"context"
	"fmt"
)

// Rewards returns a validator's accrued reward pool, one coin per
// denomination.
func (c *Client) Rewards(ctx context.Context, operatorAddr string) ([]Coin, error) {
	var resp struct {
		Rewards []Coin `json:"rewards"`
	}
	path := fmt.Sprintf(rewardsPath, operatorAddr)
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch rewards for %s: %w", operatorAddr, err)
	}
	return resp.Rewards, nil
}
