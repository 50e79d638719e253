// Command txbroadcast drives a single broadcast run: load configuration,
// preflight every configured RPC endpoint, then finalize, sign and
// submit the abstract transactions read from stdin as newline-delimited
// JSON, one ScriptSequence per contiguous same-endpoint run.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/broadcaster"
	"github.com/broadcastkit/engine/coordinator"
	"github.com/broadcastkit/engine/internal/config"
	"github.com/broadcastkit/engine/internal/metrics"
	"github.com/broadcastkit/engine/provider"
	"github.com/broadcastkit/engine/sequence"
	"github.com/broadcastkit/engine/sign"
)

type stdoutSink struct{}

func (stdoutSink) Update(index int)       { log.Printf("progress: transaction %d", index) }
func (stdoutSink) Println(message string) { log.Println(message) }

func main() {
	opts := broadcast.Options{}
	flag.BoolVar(&opts.Broadcast, "broadcast", false, "actually submit transactions instead of a dry run")
	flag.BoolVar(&opts.Slow, "slow", false, "force sequential submission even on batching-capable chains")
	flag.BoolVar(&opts.Legacy, "legacy", false, "force legacy transactions on every chain except typed-712 chains")
	flag.BoolVar(&opts.Resume, "resume", false, "recorded in Options.Resume; every run still starts new sequence files")
	flag.Uint64Var(&opts.GasEstimateMultiplier, "gas-estimate-multiplier", broadcast.DefaultGasEstimateMultiplier, "percent multiplier applied to raw gas estimates")
	flag.Uint64Var(&opts.TimeoutSeconds, "timeout", 0, "seconds to wait for receipts before giving up (0 = no timeout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	registry := provider.NewRegistry()
	defer registry.Close()

	ctx := context.Background()
	for _, res := range registry.PreflightCheck(ctx, cfg.Endpoints) {
		if res.Err != nil {
			log.Fatalf("preflight check failed for %s: %v", res.Info.URL, res.Err)
		}
	}

	records, err := readAbstractTransactions(os.Stdin)
	if err != nil {
		log.Fatalf("reading transactions: %v", err)
	}

	endpointByChain := make(map[uint64]provider.Info, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		endpointByChain[ep.ChainID] = ep
	}

	groups, err := partitionRecords(records, endpointByChain, cfg.DefaultEndpointURL)
	if err != nil {
		log.Fatalf("resolving endpoints: %v", err)
	}

	store := sequence.NewStore()
	sink := stdoutSink{}

	targets := make([]coordinator.Target, 0, len(groups))
	for _, g := range groups {
		signers, err := buildSignerMap(cfg, registry, g.Transactions)
		if err != nil {
			log.Fatalf("signer: %v", err)
		}
		targets = append(targets, coordinator.Target{
			ChainID:      g.ChainID,
			EndpointURL:  g.EndpointURL,
			Signers:      signers,
			Transactions: g.Transactions,
		})
	}

	if err := os.MkdirAll(cfg.SequenceDir, 0o755); err != nil {
		log.Fatalf("creating sequence directory: %v", err)
	}
	bundlePath := filepath.Join(cfg.SequenceDir, "run-latest.json")

	coord := coordinator.New(store, sink)
	b := broadcaster.New(registry, store, opts, sink)

	_, err = coord.Run(ctx, bundlePath, targets, nil, b)
	if err != nil {
		log.Fatalf("broadcast failed: %v", err)
	}
}

// buildSignerMap resolves one signer per distinct sender among txs.
// Under --unlocked every distinct sender gets its own Unlocked signer;
// under Raw dispatch, every distinct sender must already have a matching
// entry in cfg.PrivateKeys, failing early otherwise so a missing key is
// caught before any transaction in the group is sent.
func buildSignerMap(cfg *config.Config, registry *provider.Registry, txs []broadcast.AbstractTransaction) (broadcast.SignerMap, error) {
	senders := broadcast.DistinctSenders(txs)

	if cfg.Unlocked {
		return sign.NewUnlockedSignerMap(senders, registry), nil
	}

	signers := make(broadcast.SignerMap, len(cfg.PrivateKeys))
	for _, key := range cfg.PrivateKeys {
		s, err := sign.NewRawFromPrivateKey(key, registry)
		if err != nil {
			return nil, err
		}
		signers[strings.ToLower(s.Address())] = s
	}

	for _, addr := range senders {
		if _, err := signers.Resolve(addr); err != nil {
			return nil, broadcast.NewConfigError(fmt.Sprintf("no private key configured for sender %s", addr), nil)
		}
	}
	return signers, nil
}

// abstractTxRecord is one line of the newline-delimited JSON input: an
// abstract transaction tagged with the chain id it targets.
type abstractTxRecord struct {
	ChainID uint64 `json:"chain_id"`
	broadcast.AbstractTransaction
}

// readAbstractTransactions reads newline-delimited JSON abstract
// transaction records from r, preserving source order so alternating
// endpoints across the stream partition correctly downstream.
func readAbstractTransactions(r *os.File) ([]abstractTxRecord, error) {
	var out []abstractTxRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec abstractTxRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, scanner.Err()
}

// partitionRecords resolves each record's effective RPC endpoint — its
// own RPCEndpoint if set, else the configured endpoint for its chain id,
// else defaultEndpointURL — and partitions the resulting stream into
// contiguous same-endpoint runs.
func partitionRecords(records []abstractTxRecord, endpointByChain map[uint64]provider.Info, defaultEndpointURL string) ([]coordinator.Group, error) {
	txs := make([]broadcast.AbstractTransaction, len(records))
	chainIDs := make([]uint64, len(records))
	for i, rec := range records {
		txs[i] = rec.AbstractTransaction
		chainIDs[i] = rec.ChainID
	}

	var resolveErr error
	i := 0
	// Partition calls this exactly once per element of txs, in order, so
	// indexing chainIDs by a counter that advances on every call recovers
	// the record each tx came from without AbstractTransaction itself
	// carrying a chain id field.
	endpointOf := func(tx broadcast.AbstractTransaction) (uint64, string) {
		chainID := chainIDs[i]
		i++

		if tx.RPCEndpoint != nil {
			return chainID, *tx.RPCEndpoint
		}
		if ep, ok := endpointByChain[chainID]; ok {
			return chainID, ep.URL
		}
		if defaultEndpointURL != "" {
			return chainID, defaultEndpointURL
		}
		if resolveErr == nil {
			resolveErr = broadcast.NewConfigError(fmt.Sprintf("no RPC endpoint configured for chain %d", chainID), nil)
		}
		return chainID, ""
	}

	groups := coordinator.Partition(txs, endpointOf)
	if resolveErr != nil {
		return nil, resolveErr
	}
	return groups, nil
}
