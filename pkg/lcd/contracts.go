package lcd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ledgersync/collector/pkg/pipeline"
)

// contractsResponse is the upstream page envelope for the contract registry.
// next is a numeric offset, null on the last page.
type contractsResponse struct {
	Contracts []RawEntity  `json:"contracts"`
	Next      *json.Number `json:"next"`
}

// Contracts fetches one page of deployed-contract records. An empty offset
// starts the walk from the oldest entry; the returned next token is empty
// when the walk is complete.
func (c *Client) Contracts(ctx context.Context, offset string) (pipeline.Page[RawEntity], error) {
	query := url.Values{}
	if offset != "" {
		query.Set("offset", offset)
	}

	var resp contractsResponse
	if err := c.getJSON(ctx, contractsPath, query, &resp); err != nil {
		return pipeline.Page[RawEntity]{}, fmt.Errorf("fetch contracts page offset=%q: %w", offset, err)
	}

	page := pipeline.Page[RawEntity]{Items: resp.Contracts}
	if resp.Next != nil {
		page.Next = resp.Next.String()
	}
	return page, nil
}

// ContractsSource adapts the contract registry endpoint to the pipeline
// source contract.
type ContractsSource struct {
	Client *Client
}

func (s *ContractsSource) FetchPage(ctx context.Context, token string) (pipeline.Page[RawEntity], error) {
	return s.Client.Contracts(ctx, token)
}
