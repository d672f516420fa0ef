package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

func TestMain(m *testing.M) {
	logger.InitDefaultLogger(logger.GlobalLoggerConfig{})
	m.Run()
}

// rpcFake is a minimal JSON-RPC endpoint scripted per method. The
// sendTransaction response is fixed to the duplicate-submission error so the
// recovery path is what gets exercised.
type rpcFake struct {
	mu            sync.Mutex
	statusQueries []string
	statusErr     interface{}
}

func (rf *rpcFake) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     interface{}       `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Malformed RPC request: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch req.Method {
		case "getLatestBlockhash":
			rf.writeResult(w, req.ID, map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value": map[string]interface{}{
					"blockhash":            solana.SystemProgramID.String(),
					"lastValidBlockHeight": 100,
				},
			})
		case "sendTransaction":
			rf.writeError(w, req.ID, -32002,
				"Transaction simulation failed: This transaction has already been processed",
				map[string]interface{}{"err": "AlreadyProcessed"})
		case "getSignatureStatuses":
			var sigs []string
			if len(req.Params) > 0 {
				_ = json.Unmarshal(req.Params[0], &sigs)
			}
			rf.mu.Lock()
			rf.statusQueries = append(rf.statusQueries, sigs...)
			rf.mu.Unlock()
			rf.writeResult(w, req.ID, map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value": []interface{}{map[string]interface{}{
					"slot":               1,
					"confirmations":      nil,
					"err":                rf.statusErr,
					"confirmationStatus": "finalized",
				}},
			})
		default:
			t.Errorf("Unexpected RPC method %s", req.Method)
		}
	}
}

func (rf *rpcFake) writeResult(w http.ResponseWriter, id, result interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0", "id": id, "result": result,
	})
}

func (rf *rpcFake) writeError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0", "id": id,
		"error": map[string]interface{}{"code": code, "message": message, "data": data},
	})
}

func (rf *rpcFake) queried() []string {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	return append([]string(nil), rf.statusQueries...)
}

func newSubmitFixture(t *testing.T, fake *rpcFake) (*SolanaClient, *KeypairSigner, solana.Instruction) {
	t.Helper()

	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	privateKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Key generation failed: %v", err)
	}
	signer := NewKeypairSigner(privateKey)

	client := NewSolanaClient(SolanaConfig{
		Endpoint:   server.URL,
		Commitment: rpc.CommitmentFinalized,
	})

	instruction := solana.NewInstruction(
		solana.MustPublicKeyFromBase58("DK9t6EFKWMZr1FwQxuuXwRe2GJ75MuqQ7qdeqKYiqCA6"),
		[]*solana.AccountMeta{solana.NewAccountMeta(signer.PublicKey(), true, true)},
		[]byte{1, 2, 3},
	)
	return client, signer, instruction
}

func TestSubmitRecoversAlreadyProcessedSignature(t *testing.T) {
	fake := &rpcFake{}
	client, signer, instruction := newSubmitFixture(t, fake)

	signature, err := client.SubmitInstruction(context.Background(), instruction, signer)
	if err != nil {
		t.Fatalf("Submit must succeed when the duplicate already confirmed: %v", err)
	}
	if signature.IsZero() {
		t.Fatal("Recovered signature is zero")
	}

	queried := fake.queried()
	if len(queried) != 1 || queried[0] != signature.String() {
		t.Errorf("Status lookups %v do not match returned signature %s", queried, signature)
	}
}

func TestSubmitAlreadyProcessedWithFailedStatusStaysAnError(t *testing.T) {
	fake := &rpcFake{statusErr: map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}}
	client, signer, instruction := newSubmitFixture(t, fake)

	signature, err := client.SubmitInstruction(context.Background(), instruction, signer)
	if !reasoncodes.HasCode(err, reasoncodes.ErrAlreadyProcessed) {
		t.Fatalf("Error code = %v, want AlreadyProcessed", err)
	}
	if !signature.IsZero() {
		t.Errorf("No signature expected when the duplicate failed on chain, got %s", signature)
	}
}
