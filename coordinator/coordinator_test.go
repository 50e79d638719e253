package coordinator

import (
	"testing"

	broadcast "github.com/broadcastkit/engine"
)

func TestPartitionClosesAGroupOnEveryEndpointChange(t *testing.T) {
	endpoints := map[string]string{"a1": "rpc-a", "a2": "rpc-a", "b1": "rpc-b", "b2": "rpc-b", "a3": "rpc-a"}
	chainIDs := map[string]uint64{"a1": 1, "a2": 1, "b1": 2, "b2": 2, "a3": 1}
	txs := []broadcast.AbstractTransaction{
		{ContractName: "a1"},
		{ContractName: "a2"},
		{ContractName: "b1"},
		{ContractName: "b2"},
		{ContractName: "a3"},
	}

	out := Partition(txs, func(tx broadcast.AbstractTransaction) (uint64, string) {
		return chainIDs[tx.ContractName], endpoints[tx.ContractName]
	})

	// [A, A, B, B, A] must yield three groups, not two: the trailing A is
	// a fresh run once B has interrupted it, even though it shares a
	// chain id with the first group.
	if len(out) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(out))
	}

	wantLengths := []int{2, 2, 1}
	for i, want := range wantLengths {
		if len(out[i].Transactions) != want {
			t.Errorf("group %d: expected %d transactions, got %d", i, want, len(out[i].Transactions))
		}
	}

	if out[0].ChainID != 1 || out[1].ChainID != 2 || out[2].ChainID != 1 {
		t.Fatalf("chain ids = [%d, %d, %d], want [1, 2, 1]", out[0].ChainID, out[1].ChainID, out[2].ChainID)
	}

	wantOrder := []string{"a1", "a2"}
	for i, want := range wantOrder {
		if out[0].Transactions[i].ContractName != want {
			t.Errorf("group 0 tx[%d] = %s, want %s", i, out[0].Transactions[i].ContractName, want)
		}
	}
	if out[2].Transactions[0].ContractName != "a3" {
		t.Errorf("group 2 tx[0] = %s, want a3", out[2].Transactions[0].ContractName)
	}
}

func TestPartitionEmptyInputReturnsNoGroups(t *testing.T) {
	out := Partition(nil, func(tx broadcast.AbstractTransaction) (uint64, string) { return 0, "" })
	if len(out) != 0 {
		t.Fatalf("expected 0 groups, got %d", len(out))
	}
}

func TestRunWithNoTargetsReturnsErrNoTransactions(t *testing.T) {
	c := New(nil, nil)
	_, err := c.Run(nil, "", nil, nil, nil)
	if err != broadcast.ErrNoTransactions {
		t.Fatalf("err = %v, want ErrNoTransactions", err)
	}
}
