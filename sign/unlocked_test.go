package sign

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/provider"
)

func TestUnlockedSignAndSendCallsEthSendTransaction(t *testing.T) {
	var capturedMethod string
	var capturedParams []interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
			Params []interface{}   `json:"params"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		capturedMethod = req.Method
		capturedParams = req.Params

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": "0x" + "ab"}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	registry := provider.NewRegistry()
	defer registry.Close()

	signer := NewUnlocked("0x00000000000000000000000000000000000001", registry)

	to := "0x00000000000000000000000000000000000002"
	tx := &broadcast.FinalTransaction{
		AbstractTransaction: broadcast.AbstractTransaction{From: signer.Address(), To: &to, Value: big.NewInt(0)},
		ChainID:             1,
		Nonce:               5,
		Gas:                 21000,
		Kind:                broadcast.TxFeeMarket,
		GasFeeCap:           big.NewInt(2_000_000_000),
		GasTipCap:           big.NewInt(1_000_000_000),
	}

	hash, err := signer.SignAndSend(srv.URL, tx)
	if err != nil {
		t.Fatalf("SignAndSend: %v", err)
	}
	if hash == "" {
		t.Error("expected a non-empty transaction hash")
	}
	if capturedMethod != "eth_sendTransaction" {
		t.Fatalf("expected eth_sendTransaction, got %q", capturedMethod)
	}
	if len(capturedParams) != 1 {
		t.Fatalf("expected a single params object, got %d", len(capturedParams))
	}
}
