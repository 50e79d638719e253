package chain

import "testing"

func TestClassForKnownChains(t *testing.T) {
	cases := []struct {
		name             string
		chainID          uint64
		wantLegacy       bool
		wantBatching     bool
		wantDifferentGas bool
		wantTyped712     bool
	}{
		{"ethereum", 1, false, true, false, false},
		{"bsc", 56, true, true, false, false},
		{"arbitrum", 42161, false, false, true, false},
		{"zksync era", 324, false, false, true, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassFor(c.chainID)
			if got.IsLegacy != c.wantLegacy {
				t.Errorf("IsLegacy = %v, want %v", got.IsLegacy, c.wantLegacy)
			}
			if got.SupportsBatching != c.wantBatching {
				t.Errorf("SupportsBatching = %v, want %v", got.SupportsBatching, c.wantBatching)
			}
			if got.DifferentGasCalc != c.wantDifferentGas {
				t.Errorf("DifferentGasCalc = %v, want %v", got.DifferentGasCalc, c.wantDifferentGas)
			}
			if got.Typed712 != c.wantTyped712 {
				t.Errorf("Typed712 = %v, want %v", got.Typed712, c.wantTyped712)
			}
		})
	}
}

func TestClassForUnknownChainFallsBackToDefault(t *testing.T) {
	got := ClassFor(999999999)
	if got != DefaultClass {
		t.Errorf("ClassFor(unknown) = %+v, want DefaultClass %+v", got, DefaultClass)
	}
}
