package chain

import (
	"fmt"
	"math/big"

	broadcast "github.com/broadcastkit/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Typed712TxType is the leading byte zkSync-family chains require on the
// wire before the RLP-encoded transaction fields, distinguishing the
// custom transaction type from legacy and EIP-1559 envelopes.
const Typed712TxType = 0x71

// ToGethTx builds the unsigned go-ethereum transaction for a legacy or
// fee-market FinalTransaction. Typed-712 transactions are assembled
// separately through Typed712Domain and AssembleTyped712Raw, since
// go-ethereum's core/types has no built-in typed-712 envelope.
func ToGethTx(final *broadcast.FinalTransaction) (*types.Transaction, error) {
	var to *common.Address
	if final.To != nil {
		addr := common.HexToAddress(*final.To)
		to = &addr
	}
	value := final.Value
	if value == nil {
		value = new(big.Int)
	}

	switch final.Kind {
	case broadcast.TxLegacy:
		return types.NewTx(&types.LegacyTx{
			Nonce:    final.Nonce,
			GasPrice: final.GasPrice,
			Gas:      final.Gas,
			To:       to,
			Value:    value,
			Data:     final.Input,
		}), nil
	case broadcast.TxFeeMarket:
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(final.ChainID),
			Nonce:     final.Nonce,
			GasTipCap: final.GasTipCap,
			GasFeeCap: final.GasFeeCap,
			Gas:       final.Gas,
			To:        to,
			Value:     value,
			Data:      final.Input,
		}), nil
	default:
		return nil, fmt.Errorf("chain: %d is not a standard transaction kind", final.Kind)
	}
}

// typed712Fields is the RLP field list for the custom EIP-712 transaction
// type, ordered the way zkSync Era's EIP712Transaction envelope expects:
// the standard 1559-shaped prefix followed by the zkSync-specific
// factory deps and paymaster tuple.
type typed712Fields struct {
	Nonce                *big.Int
	GasTipCap            *big.Int
	GasFeeCap            *big.Int
	Gas                  *big.Int
	To                   *common.Address `rlp:"nil"`
	Value                *big.Int
	Data                 []byte
	ChainID              *big.Int
	SignerNonceDup       *big.Int
	From                 common.Address
	GasPerPubdataByte    *big.Int
	FactoryDeps          [][]byte
	CustomSignature      []byte
	PaymasterParams      []paymasterParams
}

type paymasterParams struct {
	Paymaster common.Address
	Input     []byte
}

// Typed712Domain builds the EIP-712 typed data structure a raw signer
// hashes and signs for a typed-712 transaction, matching zkSync's
// "Transaction" primary type.
func Typed712Domain(final *broadcast.FinalTransaction) apitypes.TypedData {
	to := "0x0000000000000000000000000000000000000000"
	if final.To != nil {
		to = *final.To
	}
	value := "0x0"
	if final.Value != nil {
		value = hexBig(final.Value)
	}

	message := apitypes.TypedDataMessage{
		"txType":                 fmt.Sprintf("%d", Typed712TxType),
		"from":                   final.From,
		"to":                     to,
		"gasLimit":               hexUint(final.Gas),
		"gasPerPubdataByteLimit": "0x0",
		"maxFeePerGas":           hexBig(final.GasFeeCap),
		"maxPriorityFeePerGas":   hexBig(final.GasTipCap),
		"paymaster":              paymasterAddress(final),
		"nonce":                  hexUint(final.Nonce),
		"value":                  value,
		"data":                   fmt.Sprintf("0x%x", final.Input),
		"factoryDeps":            factoryDepsHashes(final),
		"paymasterInput":         fmt.Sprintf("0x%x", final.Typed712.PaymasterInput),
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
			},
			"Transaction": {
				{Name: "txType", Type: "uint256"},
				{Name: "from", Type: "uint256"},
				{Name: "to", Type: "uint256"},
				{Name: "gasLimit", Type: "uint256"},
				{Name: "gasPerPubdataByteLimit", Type: "uint256"},
				{Name: "maxFeePerGas", Type: "uint256"},
				{Name: "maxPriorityFeePerGas", Type: "uint256"},
				{Name: "paymaster", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "value", Type: "uint256"},
				{Name: "data", Type: "bytes"},
				{Name: "factoryDeps", Type: "bytes32[]"},
				{Name: "paymasterInput", Type: "bytes"},
			},
		},
		PrimaryType: "Transaction",
		Domain: apitypes.TypedDataDomain{
			Name:    "zkSync",
			Version: "2",
			ChainId: (*math.HexOrDecimal256)(new(big.Int).SetUint64(final.ChainID)),
		},
		Message: message,
	}
}

// AssembleTyped712Raw RLP-encodes the signed typed-712 fields and
// prepends Typed712TxType, producing the raw bytes eth_sendRawTransaction
// expects for this transaction type.
func AssembleTyped712Raw(final *broadcast.FinalTransaction, signature []byte, from common.Address) ([]byte, error) {
	var to *common.Address
	if final.To != nil {
		addr := common.HexToAddress(*final.To)
		to = &addr
	}
	value := final.Value
	if value == nil {
		value = new(big.Int)
	}

	var params []paymasterParams
	if final.Typed712.PaymasterAddress != nil {
		params = append(params, paymasterParams{
			Paymaster: common.HexToAddress(*final.Typed712.PaymasterAddress),
			Input:     final.Typed712.PaymasterInput,
		})
	}

	fields := typed712Fields{
		Nonce:             new(big.Int).SetUint64(final.Nonce),
		GasTipCap:         final.GasTipCap,
		GasFeeCap:         final.GasFeeCap,
		Gas:               new(big.Int).SetUint64(final.Gas),
		To:                to,
		Value:             value,
		Data:              final.Input,
		ChainID:           new(big.Int).SetUint64(final.ChainID),
		SignerNonceDup:    new(big.Int).SetUint64(final.Nonce),
		From:              from,
		GasPerPubdataByte: big.NewInt(0),
		FactoryDeps:       final.Typed712.FactoryDeps,
		CustomSignature:   signature,
		PaymasterParams:   params,
	}

	body, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, fmt.Errorf("chain: encode typed-712 fields: %w", err)
	}

	raw := make([]byte, 0, len(body)+1)
	raw = append(raw, Typed712TxType)
	raw = append(raw, body...)
	return raw, nil
}

func hexBig(v *big.Int) string {
	if v == nil {
		return "0x0"
	}
	return fmt.Sprintf("0x%x", v)
}

func hexUint(v uint64) string { return fmt.Sprintf("0x%x", v) }

func paymasterAddress(final *broadcast.FinalTransaction) string {
	if final.Typed712.PaymasterAddress == nil {
		return "0x0000000000000000000000000000000000000000"
	}
	return *final.Typed712.PaymasterAddress
}

func factoryDepsHashes(final *broadcast.FinalTransaction) []string {
	hashes := make([]string, 0, len(final.Typed712.FactoryDeps))
	for _, dep := range final.Typed712.FactoryDeps {
		hashes = append(hashes, fmt.Sprintf("0x%x", dep))
	}
	return hashes
}
