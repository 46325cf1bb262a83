package lcd

import (
	"context"
	"fmt"
)

// Validators returns the full validator set. The endpoint returns the whole
// set in one response; the set is small enough that upstream does not page it.
func (c *Client) Validators(ctx context.Context) ([]Validator, error) {
	var resp struct {
		Validators []Validator `json:"validators"`
	}
	if err := c.getJSON(ctx, validatorsPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch validators: %w", err)
	}
	return resp.Validators, nil
}

// Delegators returns the delegator set of a validator, used to locate the
// operator's self-delegation.
func (c *Client) Delegators(ctx context.Context, operatorAddr string) ([]Delegator, error) {
	var resp struct {
		Delegators []Delegator `json:"delegators"`
	}
	path := fmt.Sprintf(delegatorsPath, operatorAddr)
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch delegators for %s: %w", operatorAddr, err)
	}
	return resp.Delegators, nil
}

// SigningInfo returns the slashing-period signing statistics of a validator.
func (c *Client) SigningInfo(ctx context.Context, operatorAddr string) (*SigningInfo, error) {
	var info SigningInfo
	path := fmt.Sprintf(signingInfoPath, operatorAddr)
	if err := c.getJSON(ctx, path, nil, &info); err != nil {
		return nil, fmt.Errorf("fetch signing info for %s: %w", operatorAddr, err)
	}
	return &info, nil
}
