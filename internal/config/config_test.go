package config

import "testing"

func TestParseEndpointsParsesMultipleEntries(t *testing.T) {
	endpoints, err := parseEndpoints("1=https://rpc.example/mainnet, 137 = https://rpc.example/polygon")
	if err != nil {
		t.Fatalf("parseEndpoints: %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(endpoints))
	}
	if endpoints[0].ChainID != 1 || endpoints[0].URL != "https://rpc.example/mainnet" {
		t.Errorf("endpoints[0] = %+v", endpoints[0])
	}
	if endpoints[1].ChainID != 137 || endpoints[1].URL != "https://rpc.example/polygon" {
		t.Errorf("endpoints[1] = %+v", endpoints[1])
	}
}

func TestParseEndpointsRejectsMalformedEntry(t *testing.T) {
	if _, err := parseEndpoints("not-a-valid-entry"); err == nil {
		t.Fatal("expected an error for a malformed endpoint entry")
	}
}

func TestParseEndpointsRejectsEmpty(t *testing.T) {
	if _, err := parseEndpoints(""); err == nil {
		t.Fatal("expected an error for no endpoints configured")
	}
}

func TestParsePrivateKeysSplitsCommaSeparatedList(t *testing.T) {
	keys := parsePrivateKeys(" 0xabc , 0xdef ,, 0x123")
	if len(keys) != 3 {
		t.Fatalf("got %d keys, want 3: %v", len(keys), keys)
	}
	if keys[0] != "0xabc" || keys[1] != "0xdef" || keys[2] != "0x123" {
		t.Errorf("keys = %v", keys)
	}
}

func TestParsePrivateKeysEmptyReturnsNil(t *testing.T) {
	if keys := parsePrivateKeys(""); keys != nil {
		t.Errorf("expected nil for empty input, got %v", keys)
	}
}

func TestLoadRequiresSigningMethod(t *testing.T) {
	t.Setenv("BROADCAST_PRIVATE_KEY", "")
	t.Setenv("BROADCAST_UNLOCKED", "")
	t.Setenv("BROADCAST_RPC_ENDPOINTS", "1=https://rpc.example/mainnet")

	if _, err := Load(); err == nil {
		t.Fatal("expected a config error when neither a private key nor --unlocked is set")
	}
}
