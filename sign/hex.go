package sign

import (
	"fmt"
	"math/big"
)

func hexUint64(v uint64) string { return fmt.Sprintf("0x%x", v) }

func hexBig(v *big.Int) string {
	if v == nil {
		return "0x0"
	}
	return fmt.Sprintf("0x%x", v)
}

func hexBytes(b []byte) string { return fmt.Sprintf("0x%x", b) }
