package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// rpcServer returns a minimal JSON-RPC HTTP server that answers
// eth_chainId with chainIDHex, enough to exercise dialing and preflight
// without a real node.
func rpcServer(t *testing.T, chainIDHex string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		switch req.Method {
		case "eth_chainId":
			resp["result"] = chainIDHex
		default:
			resp["result"] = nil
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRegistryReusesConnection(t *testing.T) {
	srv := rpcServer(t, "0x1")
	r := NewRegistry()
	defer r.Close()

	c1, err := r.EthClient(srv.URL)
	if err != nil {
		t.Fatalf("first EthClient: %v", err)
	}
	c2, err := r.EthClient(srv.URL)
	if err != nil {
		t.Fatalf("second EthClient: %v", err)
	}
	if c1 != c2 {
		t.Errorf("expected cached client to be reused, got distinct instances")
	}
}

func TestPreflightCheckDetectsChainIDMismatch(t *testing.T) {
	srv := rpcServer(t, "0x1") // reports mainnet
	r := NewRegistry()
	defer r.Close()

	results := r.PreflightCheck(context.Background(), []Info{
		{ChainID: 999, URL: srv.URL, Label: "mismatched"},
	})

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected a chain id mismatch error, got nil")
	}
}

func TestPreflightCheckAllHealthy(t *testing.T) {
	srv := rpcServer(t, "0x1")
	r := NewRegistry()
	defer r.Close()

	results := r.PreflightCheck(context.Background(), []Info{
		{ChainID: 1, URL: srv.URL, Label: "mainnet"},
	})

	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("expected one healthy result, got %+v", results)
	}
}
