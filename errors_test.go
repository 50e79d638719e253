package broadcast

import (
	"errors"
	"testing"
)

func TestConfigErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := NewConfigError("bad flag combination", inner)
	if !errors.Is(err, inner) {
		t.Errorf("errors.Is(err, inner) = false, want true")
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestRpcErrorMessageIncludesMethodAndEndpoint(t *testing.T) {
	err := NewRpcError("http://localhost:8545", "eth_sendRawTransaction", errors.New("timeout"))
	msg := err.Error()
	if !contains(msg, "eth_sendRawTransaction") || !contains(msg, "http://localhost:8545") {
		t.Errorf("Error() = %q, want it to mention method and endpoint", msg)
	}
}

func TestPendingReceiptsIncompleteErrorCountsHashes(t *testing.T) {
	err := &PendingReceiptsIncompleteError{Pending: []string{"0x1", "0x2", "0x3"}}
	if !contains(err.Error(), "3") {
		t.Errorf("Error() = %q, want it to mention the pending count", err.Error())
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
