package external

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func TestConfigDefaults(t *testing.T) {
	conf := SolanaConfig{}.withDefaults()

	if conf.Commitment != rpc.CommitmentFinalized {
		t.Errorf("Default commitment wrong: %s", conf.Commitment)
	}
	if conf.ConfirmTimeout != 60*time.Second {
		t.Errorf("Default confirm timeout wrong: %s", conf.ConfirmTimeout)
	}
	if conf.PollInterval != 2*time.Second {
		t.Errorf("Default poll interval wrong: %s", conf.PollInterval)
	}

	custom := SolanaConfig{
		Commitment:     rpc.CommitmentConfirmed,
		ConfirmTimeout: 5 * time.Second,
		PollInterval:   100 * time.Millisecond,
	}.withDefaults()
	if custom.Commitment != rpc.CommitmentConfirmed || custom.ConfirmTimeout != 5*time.Second {
		t.Errorf("Explicit settings overridden: %+v", custom)
	}
}

func TestCommitmentReached(t *testing.T) {
	cases := []struct {
		status rpc.ConfirmationStatusType
		want   rpc.CommitmentType
		ok     bool
	}{
		{rpc.ConfirmationStatusProcessed, rpc.CommitmentFinalized, false},
		{rpc.ConfirmationStatusConfirmed, rpc.CommitmentFinalized, false},
		{rpc.ConfirmationStatusFinalized, rpc.CommitmentFinalized, true},
		{rpc.ConfirmationStatusConfirmed, rpc.CommitmentConfirmed, true},
		{rpc.ConfirmationStatusFinalized, rpc.CommitmentProcessed, true},
	}
	for _, tc := range cases {
		if got := commitmentReached(tc.status, tc.want); got != tc.ok {
			t.Errorf("commitmentReached(%s, %s) = %v, want %v", tc.status, tc.want, got, tc.ok)
		}
	}
}

func TestExplorerTxURL(t *testing.T) {
	var sig solana.Signature
	sig[0] = 1

	devnet := ExplorerTxURL(sig, "devnet")
	if devnet != "https://solscan.io/tx/"+sig.String()+"?cluster=devnet" {
		t.Errorf("Devnet URL wrong: %s", devnet)
	}

	mainnet := ExplorerTxURL(sig, "mainnet")
	if mainnet != "https://solscan.io/tx/"+sig.String() {
		t.Errorf("Mainnet URL wrong: %s", mainnet)
	}
}
