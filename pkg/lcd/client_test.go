package lcd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgersync/collector/pkg/pipeline"
)

func testClient(endpoints ...string) *Client {
	return NewWithOpts(Opts{
		Endpoints: endpoints,
		RPS:       1000,
		Burst:     1000,
	})
}

func TestContractsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/wasm/contracts", r.URL.Path)
		require.Equal(t, "50", r.URL.Query().Get("offset"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"contracts": [
				{"contract_address": "terra1contract", "owner": "terra1owner"},
				{"contract_address": "terra1other"}
			],
			"next": 100
		}`))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL).Contracts(context.Background(), "50")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, "100", page.Next)
	require.Equal(t, "terra1contract", page.Items[0]["contract_address"])
}

func TestContractsFirstPageOmitsOffset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, r.URL.Query().Has("offset"))
		_, _ = w.Write([]byte(`{"contracts": [], "next": null}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Contracts(context.Background(), "")
	require.NoError(t, err)
}

func TestContractsTerminalPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"contracts": [{"contract_address": "terra1last"}], "next": null}`))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL).Contracts(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "", page.Next)
}

func TestServerErrorSurfacesAsSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Contracts(context.Background(), "")
	require.ErrorIs(t, err, pipeline.ErrSourceUnavailable)
}

func TestAllBreakersOpenReportsCircuitOpen(t *testing.T) {
	client := testClient("http://lcd-down:1317")
	for i := 0; i < 3; i++ {
		client.noteFailure("http://lcd-down:1317")
	}

	_, err := client.Contracts(context.Background(), "")
	require.ErrorIs(t, err, pipeline.ErrSourceUnavailable)
	require.Contains(t, err.Error(), "all endpoints circuit-open")
	require.NotContains(t, err.Error(), "<nil>")
}

func TestEndpointFailover(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"contracts": [{"contract_address": "terra1ok"}], "next": null}`))
	}))
	defer up.Close()

	page, err := testClient(down.URL, up.URL).Contracts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
}

func TestValidators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/staking/validators", r.URL.Path)
		_, _ = w.Write([]byte(`{"validators": [
			{"operator_address": "terravaloper1abc", "status": 3, "tokens": "1000",
			 "description": {"moniker": "node-one"}}
		]}`))
	}))
	defer srv.Close()

	validators, err := testClient(srv.URL).Validators(context.Background())
	require.NoError(t, err)
	require.Len(t, validators, 1)
	require.Equal(t, "terravaloper1abc", validators[0].OperatorAddress)
	require.Equal(t, 3, validators[0].Status)
	require.Equal(t, "node-one", validators[0].Description.Moniker)
}

func TestDelegators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/staking/validators/terravaloper1abc/delegators", r.URL.Path)
		_, _ = w.Write([]byte(`{"delegators": [
			{"address": "terra1abc", "amount": "500", "weight": "0.5"}
		]}`))
	}))
	defer srv.Close()

	delegators, err := testClient(srv.URL).Delegators(context.Background(), "terravaloper1abc")
	require.NoError(t, err)
	require.Len(t, delegators, 1)
	require.Equal(t, "500", delegators[0].Amount)
}

func TestSigningInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"missed_blocks_counter": "250", "tombstoned": false}`))
	}))
	defer srv.Close()

	info, err := testClient(srv.URL).SigningInfo(context.Background(), "terravaloper1abc")
	require.NoError(t, err)
	require.Equal(t, "250", info.MissedBlocksCounter)
}

func TestMissedOracleVotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"height": "123456", "result": "7"}`))
	}))
	defer srv.Close()

	missed, err := testClient(srv.URL).MissedOracleVotes(context.Background(), "terravaloper1abc")
	require.NoError(t, err)
	require.Equal(t, "7", missed)
}

func TestExchangeRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": [
			{"denom": "uusd", "amount": "2.0"},
			{"denom": "ukrw", "amount": "2400.5"}
		]}`))
	}))
	defer srv.Close()

	rates, err := testClient(srv.URL).ExchangeRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]string{"uusd": "2.0", "ukrw": "2400.5"}, rates)
}

func TestRewards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/distribution/validators/terravaloper1abc/rewards", r.URL.Path)
		_, _ = w.Write([]byte(`{"rewards": [{"denom": "uluna", "amount": "100"}]}`))
	}))
	defer srv.Close()

	rewards, err := testClient(srv.URL).Rewards(context.Background(), "terravaloper1abc")
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	require.Equal(t, "uluna", rewards[0].Denom)
}
