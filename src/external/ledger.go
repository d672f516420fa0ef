package external

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// AccountLookup is the result of a read-only existence check at a derived
// address. Present=false with a nil error means the ledger was reached and
// reported no account; a failed lookup is an error, never "absent".
type AccountLookup struct {
	Present  bool
	Data     []byte
	Owner    solana.PublicKey
	Lamports uint64
}

// LedgerClient is the application's view of the distributed ledger. The
// production implementation talks JSON-RPC; tests substitute a scripted fake.
type LedgerClient interface {
	// LookupAccount queries the ledger for account data at addr.
	LookupAccount(ctx context.Context, addr solana.PublicKey) (AccountLookup, error)

	// SubmitInstruction builds a single-instruction transaction paid and
	// signed by signer, submits it and waits for confirmation at the
	// configured commitment. Errors carry a reason code per the submission
	// failure taxonomy; on an "already processed" response the signature of
	// the signed transaction is recovered and returned when the ledger
	// confirms it.
	SubmitInstruction(ctx context.Context, instruction solana.Instruction, signer Signer) (solana.Signature, error)

	// FindSignatureForAddress returns the most recent transaction signature
	// touching addr, best effort.
	FindSignatureForAddress(ctx context.Context, addr solana.PublicKey) (solana.Signature, bool, error)
}
