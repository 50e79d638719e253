// Package sign implements the two ways a finalized transaction can be
// turned into a transaction hash on-chain: Raw, which holds a private
// key locally and signs before submitting, and Unlocked, which delegates
// both signing and submission to the RPC endpoint's own account
// management.
package sign

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/chain"
	"github.com/broadcastkit/engine/provider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Raw signs every finalized transaction locally with an ECDSA private
// key before submitting it over the configured RPC endpoint.
type Raw struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	registry   *provider.Registry
}

// NewRawFromPrivateKey builds a Raw signer from a hex-encoded private
// key (with or without a "0x" prefix), deriving the sender address from
// the corresponding public key.
func NewRawFromPrivateKey(privateKeyHex string, registry *provider.Registry) (*Raw, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, broadcast.NewConfigError("invalid private key", err)
	}

	return &Raw{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		registry:   registry,
	}, nil
}

// Address returns the signer's Ethereum address.
func (s *Raw) Address() string { return s.address.Hex() }

// SignAndSend signs tx according to its wire shape and submits it to
// endpointURL, returning the resulting transaction hash.
func (s *Raw) SignAndSend(endpointURL string, tx *broadcast.FinalTransaction) (string, error) {
	if tx.Kind == broadcast.TxTyped712 {
		return s.signAndSendTyped712(endpointURL, tx)
	}
	return s.signAndSendStandard(endpointURL, tx)
}

func (s *Raw) signAndSendStandard(endpointURL string, tx *broadcast.FinalTransaction) (string, error) {
	unsigned, err := chain.ToGethTx(tx)
	if err != nil {
		return "", broadcast.NewSigningFailedError(s.Address(), err)
	}

	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(tx.ChainID))
	signed, err := types.SignTx(unsigned, signer, s.privateKey)
	if err != nil {
		return "", broadcast.NewSigningFailedError(s.Address(), err)
	}

	eth, err := s.registry.EthClient(endpointURL)
	if err != nil {
		return "", err
	}
	if err := eth.SendTransaction(context.Background(), signed); err != nil {
		return "", broadcast.NewRpcError(endpointURL, "eth_sendRawTransaction", err)
	}

	return signed.Hash().Hex(), nil
}

// signAndSendTyped712 hashes and signs the EIP-712 typed-data
// representation of tx the way zkSync-family chains require, then
// assembles and submits the raw type-0x71 envelope directly over the
// RPC client since go-ethereum's ethclient has no typed-712 support.
func (s *Raw) signAndSendTyped712(endpointURL string, tx *broadcast.FinalTransaction) (string, error) {
	typedData := chain.Typed712Domain(tx)

	dataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return "", broadcast.NewSigningFailedError(s.Address(), fmt.Errorf("hash struct: %w", err))
	}
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return "", broadcast.NewSigningFailedError(s.Address(), fmt.Errorf("hash domain: %w", err))
	}

	rawData := []byte{0x19, 0x01}
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, dataHash...)
	digest := crypto.Keccak256(rawData)

	signature, err := crypto.Sign(digest, s.privateKey)
	if err != nil {
		return "", broadcast.NewSigningFailedError(s.Address(), err)
	}
	signature[64] += 27

	raw, err := chain.AssembleTyped712Raw(tx, signature, s.address)
	if err != nil {
		return "", broadcast.NewSigningFailedError(s.Address(), err)
	}

	rpcClient, err := s.registry.RPCClient(endpointURL)
	if err != nil {
		return "", err
	}

	var txHash string
	if err := rpcClient.CallContext(context.Background(), &txHash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return "", broadcast.NewRpcError(endpointURL, "eth_sendRawTransaction", err)
	}
	return txHash, nil
}
