// Package config loads broadcast engine configuration from environment
// variables (optionally backed by a .env file), the same
// load-dotenv-then-read-os-getenv pattern used across this codebase's
// services.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/provider"
	"github.com/joho/godotenv"
)

// Config is every environment-sourced setting the broadcast engine needs
// beyond the per-invocation CLI flags captured in broadcast.Options.
type Config struct {
	// PrivateKeys signs locally when set, one Raw signer per key, keyed
	// by the address it derives; leave empty and set Unlocked to
	// delegate signing to the RPC node instead. A script that sends from
	// more than one account under the Raw path needs an entry here for
	// every distinct from address it uses.
	PrivateKeys []string
	// SenderAddress is required when Unlocked is true, since there is no
	// local key to derive it from.
	SenderAddress string
	Unlocked      bool

	// Endpoints lists every RPC endpoint this run may broadcast to,
	// keyed by chain id.
	Endpoints []provider.Info
	// DefaultEndpointURL is used for a transaction whose chain id has no
	// entry in Endpoints and that doesn't carry its own RPCEndpoint —
	// the CLI fork URL fallback.
	DefaultEndpointURL string

	// SequenceDir is where ScriptSequence / MultiChainSequence records
	// are written.
	SequenceDir string

	// MetricsAddr, when non-empty, serves Prometheus metrics on this
	// address (e.g. ":9090").
	MetricsAddr string
}

// Load reads configuration from the process environment, first loading
// a .env file from the working directory if one is present (godotenv.Load
// silently no-ops when the file is missing).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PrivateKeys:        parsePrivateKeys(os.Getenv("BROADCAST_PRIVATE_KEY")),
		SenderAddress:      os.Getenv("BROADCAST_SENDER"),
		Unlocked:           getEnvBool("BROADCAST_UNLOCKED", false),
		SequenceDir:        getEnv("BROADCAST_SEQUENCE_DIR", "./broadcast"),
		MetricsAddr:        os.Getenv("BROADCAST_METRICS_ADDR"),
		DefaultEndpointURL: os.Getenv("BROADCAST_FORK_URL"),
	}

	endpoints, err := parseEndpoints(os.Getenv("BROADCAST_RPC_ENDPOINTS"))
	if err != nil {
		return nil, broadcast.NewConfigError("parsing BROADCAST_RPC_ENDPOINTS", err)
	}
	cfg.Endpoints = endpoints

	if !cfg.Unlocked && len(cfg.PrivateKeys) == 0 {
		return nil, broadcast.NewConfigError("either BROADCAST_PRIVATE_KEY or BROADCAST_UNLOCKED=true with BROADCAST_SENDER must be set", nil)
	}
	if cfg.Unlocked && cfg.SenderAddress == "" {
		return nil, broadcast.NewConfigError("BROADCAST_SENDER is required when BROADCAST_UNLOCKED=true: the node has no default account to fall back on, so set it to the unlocked address you intend to send from", nil)
	}

	return cfg, nil
}

// parsePrivateKeys splits a comma-separated list of hex private keys,
// one per distinct sender the Raw dispatch path needs to cover.
func parsePrivateKeys(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var keys []string
	for _, entry := range strings.Split(raw, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			keys = append(keys, entry)
		}
	}
	return keys
}

// parseEndpoints parses a comma-separated "chainID=url" list, e.g.
// "1=https://rpc.example/mainnet,137=https://rpc.example/polygon".
func parseEndpoints(raw string) ([]provider.Info, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("no endpoints configured")
	}

	var endpoints []provider.Info
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed endpoint entry %q, want chainID=url", entry)
		}
		chainID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed chain id in %q: %w", entry, err)
		}
		endpoints = append(endpoints, provider.Info{ChainID: chainID, URL: strings.TrimSpace(parts[1])})
	}
	return endpoints, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
