package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/rabbitmq"
	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
	"github.com/gerryalvrz/psychat-solana/src/external"
	"github.com/gerryalvrz/psychat-solana/src/persistence"
	"github.com/gerryalvrz/psychat-solana/src/program"
	"github.com/gerryalvrz/psychat-solana/src/vault"
)

// Action names the user-triggered workflows guarded against concurrent
// invocation. A second call for an action that is not idle is a no-op.
type Action string

const (
	ActionMintIdentity  Action = "mint_identity"
	ActionAppendSession Action = "append_session"
	ActionMintDataset   Action = "mint_dataset"
	ActionListData      Action = "list_data"
	ActionPlaceBid      Action = "place_bid"
	ActionStakeUbi      Action = "stake_ubi"
	ActionClaimUbi      Action = "claim_ubi"
	ActionAutoCompound  Action = "auto_compound"
)

// IdentityStatus reflects what the local cache knows about the identity
// record. StatusPending covers the "submitted but outcome unknown" window.
type IdentityStatus string

const (
	StatusNone      IdentityStatus = "none"
	StatusPending   IdentityStatus = "pending"
	StatusConfirmed IdentityStatus = "confirmed"
)

// IdentityState mirrors the persisted cache in memory for the UI layer.
type IdentityState struct {
	Address   string         `json:"address"`
	Signature string         `json:"signature"`
	Status    IdentityStatus `json:"status"`
}

// Outcome is the result of a mint-type action.
type Outcome struct {
	Address       solana.PublicKey
	Signature     solana.Signature
	Existing      bool
	Indeterminate bool
}

// Service is the idempotent mint orchestrator. Per action the sequence is
// strictly Check -> Prepare -> Submit -> Persist; only the confirmed/failed
// transitions mutate the local cache and in-memory state.
type Service struct {
	Ledger    external.LedgerClient
	Signer    external.Signer
	Encryptor vault.Encryptor
	Objects   vault.ObjectStore
	Store     persistence.Store
	Publisher rabbitmq.IRabbitmqPublisher
	ProgramID solana.PublicKey
	Network   string

	guard *ActionGuard

	mu    sync.Mutex
	state IdentityState
}

func NewService(
	ledger external.LedgerClient,
	signer external.Signer,
	encryptor vault.Encryptor,
	objects vault.ObjectStore,
	store persistence.Store,
	programID solana.PublicKey,
) *Service {
	s := &Service{
		Ledger:    ledger,
		Signer:    signer,
		Encryptor: encryptor,
		Objects:   objects,
		Store:     store,
		ProgramID: programID,
		guard:     NewActionGuard(),
		state:     IdentityState{Status: StatusNone},
	}
	s.restoreFromCache()
	return s
}

// restoreFromCache reads the persisted address/signature pair at startup.
// A cached address that no longer parses is purged instead of being carried
// forward.
func (s *Service) restoreFromCache() {
	cache, err := persistence.LoadIdentityCache(s.Store)
	if err != nil {
		logger.Default().Errorf(err, "Failed to read identity cache, starting cold")
		return
	}
	if cache.Address == "" {
		return
	}

	if _, err := solana.PublicKeyFromBase58(cache.Address); err != nil {
		logger.Default().Warnf("Cached identity address %q is invalid, clearing cache", cache.Address)
		if clearErr := persistence.ClearIdentityCache(s.Store); clearErr != nil {
			logger.Default().Errorf(clearErr, "Failed to clear stale identity cache")
		}
		return
	}

	status := StatusConfirmed
	if cache.Signature == "" {
		status = StatusPending
	}

	s.mu.Lock()
	s.state = IdentityState{Address: cache.Address, Signature: cache.Signature, Status: status}
	s.mu.Unlock()
}

// begin acquires the in-flight guard for an action. It returns false when a
// previous invocation of the same action has not finished yet.
func (s *Service) begin(action Action) bool {
	return s.guard.TryAcquire(action)
}

// end releases the guard. Deferred by every action so the guard is released
// on all exit paths.
func (s *Service) end(action Action) {
	s.guard.Release(action)
}

// Guard exposes the shared per-action guard so sibling services participate
// in the same in-flight accounting.
func (s *Service) Guard() *ActionGuard {
	return s.guard
}

func (s *Service) State() IdentityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IdentityAddress returns the locally known identity record address. Child
// record actions use this as their precondition; they never hit the network
// to find out the identity is missing.
func (s *Service) IdentityAddress() (solana.PublicKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Address == "" {
		return solana.PublicKey{}, false
	}
	addr, err := solana.PublicKeyFromBase58(s.state.Address)
	if err != nil {
		return solana.PublicKey{}, false
	}
	return addr, true
}

// signerKey returns the connected wallet key. Every on-chain action starts
// with this check so a detached wallet surfaces as an error, not a panic.
func (s *Service) signerKey() (solana.PublicKey, error) {
	if s.Signer == nil || s.Signer.PublicKey().IsZero() {
		return solana.PublicKey{}, reasoncodes.New(reasoncodes.ErrSignerUnavailable, "wallet not connected")
	}
	return s.Signer.PublicKey(), nil
}

func (s *Service) setState(state IdentityState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// MintIdentity creates the per-user identity record. At most one record may
// exist per owner key: an existing record aborts the create path with an
// AlreadyExists outcome that carries the discovered record instead of hiding
// it.
func (s *Service) MintIdentity(ctx context.Context, content []byte, category uint8) (Outcome, error) {
	if !s.begin(ActionMintIdentity) {
		return Outcome{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "identity mint already in progress")
	}
	defer s.end(ActionMintIdentity)

	owner, err := s.signerKey()
	if err != nil {
		return Outcome{}, err
	}

	hnftAddr, _, err := program.DeriveHnftAddress(s.ProgramID, owner)
	if err != nil {
		return Outcome{}, err
	}

	// Checking. A failed lookup is never "safe to mint".
	lookup, err := s.Ledger.LookupAccount(ctx, hnftAddr)
	if err != nil {
		return Outcome{}, err
	}
	if lookup.Present {
		return s.adoptExistingIdentity(ctx, hnftAddr)
	}

	// Preparing. Read-only with respect to the ledger, safe to retry.
	prepared, err := vault.PreparePayload(ctx, s.Encryptor, s.Objects, content)
	if err != nil {
		return Outcome{}, err
	}

	// Submitting.
	instruction, err := program.NewMintHnftInstruction(s.ProgramID, owner, hnftAddr, program.MintHnftArgs{
		EncryptedData: prepared.Pointer,
		ZkProof:       prepared.Proof,
		Category:      category,
	})
	if err != nil {
		return Outcome{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building mint instruction failed", err)
	}

	signature, err := s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
	if err != nil {
		if reasoncodes.HasCode(err, reasoncodes.ErrAlreadyProcessed) || reasoncodes.HasCode(err, reasoncodes.ErrConfirmationTimeout) {
			// Outcome unknown: surface the address so the caller can re-check
			// state instead of resubmitting the create instruction.
			s.persistAddress(hnftAddr, StatusPending)
			return Outcome{Address: hnftAddr, Indeterminate: true}, err
		}
		return Outcome{}, err
	}

	s.persistMint(hnftAddr, signature)
	s.publishMintEvent(ActionMintIdentity, owner, hnftAddr, signature)
	return Outcome{Address: hnftAddr, Signature: signature}, nil
}

// adoptExistingIdentity populates local state from a record discovered
// during the existence check, with a best-effort signature lookup.
func (s *Service) adoptExistingIdentity(ctx context.Context, hnftAddr solana.PublicKey) (Outcome, error) {
	outcome := Outcome{Address: hnftAddr, Existing: true}

	signature, found, err := s.Ledger.FindSignatureForAddress(ctx, hnftAddr)
	if err != nil {
		logger.Default().Warnf("Signature lookup for existing identity %s failed: %v", hnftAddr, err)
	}
	if found {
		outcome.Signature = signature
	}

	state := IdentityState{Address: hnftAddr.String(), Status: StatusConfirmed}
	if found {
		state.Signature = signature.String()
	}
	s.setState(state)
	s.writeCache(state)

	return outcome, reasoncodes.New(reasoncodes.ErrAlreadyExists, "identity record already exists for this wallet")
}

// AppendSession appends an encrypted session export to the existing identity
// record. The identity must already exist locally; this precondition is
// decided without network calls.
func (s *Service) AppendSession(ctx context.Context, content []byte, category string) (Outcome, error) {
	if !s.begin(ActionAppendSession) {
		return Outcome{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "session append already in progress")
	}
	defer s.end(ActionAppendSession)

	owner, err := s.signerKey()
	if err != nil {
		return Outcome{}, err
	}

	hnftAddr, ok := s.IdentityAddress()
	if !ok {
		return Outcome{}, reasoncodes.New(reasoncodes.ErrIdentityRequired, "mint your identity record before ending a session")
	}

	prepared, err := vault.PreparePayload(ctx, s.Encryptor, s.Objects, content)
	if err != nil {
		return Outcome{}, err
	}

	instruction, err := program.NewAppendHistoryInstruction(s.ProgramID, owner, hnftAddr, program.AppendHistoryArgs{
		Uri:       prepared.Pointer,
		TraitId:   hashTrait(category),
		TraitData: category,
	})
	if err != nil {
		return Outcome{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building append instruction failed", err)
	}

	signature, err := s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
	if err != nil {
		if reasoncodes.HasCode(err, reasoncodes.ErrAlreadyProcessed) || reasoncodes.HasCode(err, reasoncodes.ErrConfirmationTimeout) {
			return Outcome{Address: hnftAddr, Indeterminate: true}, err
		}
		return Outcome{}, err
	}

	s.persistMint(hnftAddr, signature)
	s.publishMintEvent(ActionAppendSession, owner, hnftAddr, signature)
	return Outcome{Address: hnftAddr, Signature: signature}, nil
}

// MintDataset creates the tradeable dataset record derived from the identity
// record. Same shape as AppendSession: identity required, no absence check.
func (s *Service) MintDataset(ctx context.Context, content []byte, category string) (Outcome, error) {
	if !s.begin(ActionMintDataset) {
		return Outcome{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "dataset mint already in progress")
	}
	defer s.end(ActionMintDataset)

	owner, err := s.signerKey()
	if err != nil {
		return Outcome{}, err
	}

	hnftAddr, ok := s.IdentityAddress()
	if !ok {
		return Outcome{}, reasoncodes.New(reasoncodes.ErrIdentityRequired, "mint your identity record before exporting a dataset")
	}

	datasetAddr, _, err := program.DeriveDatasetAddress(s.ProgramID, hnftAddr)
	if err != nil {
		return Outcome{}, err
	}

	prepared, err := vault.PreparePayload(ctx, s.Encryptor, s.Objects, content)
	if err != nil {
		return Outcome{}, err
	}

	instruction, err := program.NewMintDatasetNftInstruction(s.ProgramID, owner, hnftAddr, datasetAddr, program.MintDatasetNftArgs{
		DatasetUri: prepared.Pointer,
		Category:   category,
	})
	if err != nil {
		return Outcome{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building dataset instruction failed", err)
	}

	signature, err := s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
	if err != nil {
		if reasoncodes.HasCode(err, reasoncodes.ErrAlreadyProcessed) || reasoncodes.HasCode(err, reasoncodes.ErrConfirmationTimeout) {
			return Outcome{Address: datasetAddr, Indeterminate: true}, err
		}
		return Outcome{}, err
	}

	s.publishMintEvent(ActionMintDataset, owner, datasetAddr, signature)
	return Outcome{Address: datasetAddr, Signature: signature}, nil
}

// Reset clears the cached identifiers and in-memory state.
func (s *Service) Reset() error {
	if err := persistence.ClearIdentityCache(s.Store); err != nil {
		return err
	}
	s.setState(IdentityState{Status: StatusNone})
	return nil
}

func (s *Service) persistMint(addr solana.PublicKey, signature solana.Signature) {
	state := IdentityState{
		Address:   addr.String(),
		Signature: signature.String(),
		Status:    StatusConfirmed,
	}
	s.setState(state)
	s.writeCache(state)
}

func (s *Service) persistAddress(addr solana.PublicKey, status IdentityStatus) {
	state := IdentityState{Address: addr.String(), Status: status}
	s.setState(state)
	s.writeCache(state)
}

// writeCache writes through to the local store. The transaction already
// confirmed (or its address is known), so cache failures are logged, not
// returned.
func (s *Service) writeCache(state IdentityState) {
	if err := s.Store.Set(persistence.IdentityAddressKey, state.Address); err != nil {
		logger.Default().Errorf(err, "Failed to persist identity address")
	}
	if state.Signature == "" {
		return
	}
	if err := s.Store.Set(persistence.IdentitySignatureKey, state.Signature); err != nil {
		logger.Default().Errorf(err, "Failed to persist identity signature")
	}
}

func hashTrait(category string) string {
	sum := sha256.Sum256([]byte(category))
	return hex.EncodeToString(sum[:])
}
