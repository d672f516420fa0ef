package external

import (
	"errors"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

// classifySubmitError maps an RPC submission failure onto the structured
// failure taxonomy. Classification goes by the ledger's structured
// transaction-error kind, never by substrings of the human-readable message.
func classifySubmitError(err error) error {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		// Transport-level failure: the transaction may or may not have left
		// this process.
		return reasoncodes.Wrap(reasoncodes.ErrSubmitFailed, "transaction submission failed", err)
	}

	switch kind := transactionErrorKind(rpcErr.Data); kind {
	case "AlreadyProcessed":
		return reasoncodes.Wrap(reasoncodes.ErrAlreadyProcessed, "identical transaction was already accepted", err)
	case "AccountInUse", "AccountBorrowOutstanding":
		return reasoncodes.Wrap(reasoncodes.ErrAlreadyExists, "target account already holds data", err)
	default:
		return reasoncodes.Wrap(reasoncodes.ErrSimulationRejected, "preflight rejected transaction", err)
	}
}

// transactionErrorKind digs the TransactionError variant out of the RPC
// error payload. Simple variants arrive as a string, parameterized ones as a
// single-key object (e.g. {"InstructionError": [...]}).
func transactionErrorKind(data interface{}) string {
	payload, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}

	switch txErr := payload["err"].(type) {
	case string:
		return txErr
	case map[string]interface{}:
		for variant := range txErr {
			return variant
		}
	}
	return ""
}
