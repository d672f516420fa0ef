package external

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

type SolanaConfig struct {
	Endpoint       string
	ProgramID      solana.PublicKey
	Commitment     rpc.CommitmentType
	Network        string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

func (sc SolanaConfig) withDefaults() SolanaConfig {
	if sc.Commitment == "" {
		sc.Commitment = rpc.CommitmentFinalized
	}
	if sc.ConfirmTimeout <= 0 {
		sc.ConfirmTimeout = 60 * time.Second
	}
	if sc.PollInterval <= 0 {
		sc.PollInterval = 2 * time.Second
	}
	return sc
}

type SolanaClient struct {
	Config    SolanaConfig
	RpcClient *rpc.Client
}

func NewSolanaClient(config SolanaConfig) *SolanaClient {
	config = config.withDefaults()
	return &SolanaClient{
		Config:    config,
		RpcClient: rpc.New(config.Endpoint),
	}
}

// ValidateProgramExecutable checks the configured program id actually points
// at a deployed program.
func (sc *SolanaClient) ValidateProgramExecutable(ctx context.Context) error {
	acc, err := sc.RpcClient.GetAccountInfo(ctx, sc.Config.ProgramID)
	if err != nil {
		return reasoncodes.Wrap(reasoncodes.ErrLookupFailed, "GetAccountInfo(program) failed", err)
	}
	if acc == nil || acc.Value == nil || !acc.Value.Executable {
		return reasoncodes.New(reasoncodes.ErrInvalidInput, "program id "+sc.Config.ProgramID.String()+" is not an executable account")
	}
	return nil
}

func (sc *SolanaClient) LookupAccount(ctx context.Context, addr solana.PublicKey) (AccountLookup, error) {
	out, err := sc.RpcClient.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: sc.Config.Commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return AccountLookup{Present: false}, nil
		}
		return AccountLookup{}, reasoncodes.Wrap(reasoncodes.ErrLookupFailed, "account lookup at "+addr.String()+" failed", err)
	}
	if out == nil || out.Value == nil {
		return AccountLookup{Present: false}, nil
	}

	return AccountLookup{
		Present:  true,
		Data:     out.Value.Data.GetBinary(),
		Owner:    out.Value.Owner,
		Lamports: out.Value.Lamports,
	}, nil
}

func (sc *SolanaClient) SubmitInstruction(ctx context.Context, instruction solana.Instruction, signer Signer) (solana.Signature, error) {
	if signer == nil || signer.PublicKey().IsZero() {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrSignerUnavailable, "wallet not connected")
	}

	solanaLogger := logger.Default()

	latest, err := sc.RpcClient.GetLatestBlockhash(ctx, sc.Config.Commitment)
	if err != nil {
		return solana.Signature{}, reasoncodes.Wrap(reasoncodes.ErrLookupFailed, "fetching latest blockhash failed", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		latest.Value.Blockhash,
		solana.TransactionPayer(signer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building transaction failed", err)
	}

	if err := signer.Sign(tx); err != nil {
		return solana.Signature{}, err
	}

	transactionSignature, err := sc.RpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: sc.Config.Commitment,
		},
	)
	if err != nil {
		classified := classifySubmitError(err)
		if reasoncodes.HasCode(classified, reasoncodes.ErrAlreadyProcessed) {
			// The identical transaction was accepted earlier. The signed
			// transaction carries its own signature; recover it and check
			// whether the ledger confirms it before reporting failure.
			if recovered, ok := sc.recoverSignature(ctx, tx); ok {
				solanaLogger.Infof("Recovered signature for already-processed transaction: %s", recovered)
				return recovered, nil
			}
		}
		solanaLogger.Errorf(err, "Failed to send transaction")
		return solana.Signature{}, classified
	}

	if err := sc.waitForConfirmation(ctx, transactionSignature); err != nil {
		return transactionSignature, err
	}

	solanaLogger.Infof("Successfully sent transaction: %s", transactionSignature)
	return transactionSignature, nil
}

// recoverSignature checks whether the first signature of a fully signed
// transaction is known to the ledger.
func (sc *SolanaClient) recoverSignature(ctx context.Context, tx *solana.Transaction) (solana.Signature, bool) {
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, false
	}
	sig := tx.Signatures[0]

	out, err := sc.RpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil || out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return solana.Signature{}, false
	}
	if out.Value[0].Err != nil {
		return solana.Signature{}, false
	}
	return sig, true
}

func (sc *SolanaClient) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	deadline := time.NewTimer(sc.Config.ConfirmTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(sc.Config.PollInterval)
	defer ticker.Stop()

	for {
		out, err := sc.RpcClient.GetSignatureStatuses(ctx, true, sig)
		if err == nil && out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return reasoncodes.New(reasoncodes.ErrSimulationRejected, "transaction failed on chain")
			}
			if commitmentReached(status.ConfirmationStatus, sc.Config.Commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return reasoncodes.Wrap(reasoncodes.ErrConfirmationTimeout, "confirmation wait cancelled, outcome unknown", ctx.Err())
		case <-deadline.C:
			return reasoncodes.New(reasoncodes.ErrConfirmationTimeout, "confirmation for "+sig.String()+" did not arrive in time, re-check state before resubmitting")
		case <-ticker.C:
		}
	}
}

var commitmentRank = map[rpc.ConfirmationStatusType]int{
	rpc.ConfirmationStatusProcessed: 1,
	rpc.ConfirmationStatusConfirmed: 2,
	rpc.ConfirmationStatusFinalized: 3,
}

func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	return commitmentRank[status] >= commitmentRank[rpc.ConfirmationStatusType(want)]
}

func (sc *SolanaClient) FindSignatureForAddress(ctx context.Context, addr solana.PublicKey) (solana.Signature, bool, error) {
	sigs, err := sc.RpcClient.GetSignaturesForAddress(ctx, addr)
	if err != nil {
		return solana.Signature{}, false, reasoncodes.Wrap(reasoncodes.ErrLookupFailed, "signature lookup for "+addr.String()+" failed", err)
	}
	if len(sigs) == 0 {
		return solana.Signature{}, false, nil
	}
	return sigs[0].Signature, true, nil
}

// ExplorerTxURL builds a block-explorer link for a confirmed signature.
func ExplorerTxURL(sig solana.Signature, network string) string {
	url := "https://solscan.io/tx/" + sig.String()
	if strings.EqualFold(network, "devnet") {
		url += "?cluster=devnet"
	}
	return url
}
