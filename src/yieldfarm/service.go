package yieldfarm

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
	"github.com/gerryalvrz/psychat-solana/src/external"
	"github.com/gerryalvrz/psychat-solana/src/identity"
	"github.com/gerryalvrz/psychat-solana/src/program"
	"github.com/gerryalvrz/psychat-solana/src/vault"
)

// Service drives the UBI yield flows: staking earnings into a pool, claiming
// accrued UBI, and auto-compounding into the per-user compound account.
type Service struct {
	Ledger    external.LedgerClient
	Signer    external.Signer
	Encryptor vault.Encryptor
	Identity  *identity.Service
	ProgramID solana.PublicKey

	guard *identity.ActionGuard

	mu       sync.Mutex
	options  []YieldOption
	pools    map[string]solana.PublicKey
	earnings Earnings
}

func NewService(
	ledger external.LedgerClient,
	signer external.Signer,
	encryptor vault.Encryptor,
	identitySvc *identity.Service,
	programID solana.PublicKey,
) *Service {
	s := &Service{
		Ledger:    ledger,
		Signer:    signer,
		Encryptor: encryptor,
		Identity:  identitySvc,
		ProgramID: programID,
		guard:     identitySvc.Guard(),
		options:   seedYieldOptions(),
		pools:     make(map[string]solana.PublicKey),
		earnings: Earnings{
			TotalEarned:      12_500_000_000,
			FromDataSales:    8_200_000_000,
			FromYieldFarming: 4_300_000_000,
			AutoCompounded:   2_100_000_000,
		},
	}
	for _, option := range s.options {
		s.pools[option.Id] = poolAddress(option.Id)
	}
	return s
}

func seedYieldOptions() []YieldOption {
	return []YieldOption{
		{
			Id:       "raydium-sol-usdc",
			Name:     "SOL-USDC Pool",
			ApyBps:   1520,
			Tvl:      2_500_000,
			Protocol: "Raydium",
			Risk:     "Low",
			MinStake: 100_000_000,
		},
		{
			Id:       "forward-treasury",
			Name:     "Forward Industries Treasury",
			ApyBps:   1280,
			Tvl:      1_800_000,
			Protocol: "Forward Industries",
			Risk:     "Low",
			MinStake: 1_000_000_000,
		},
		{
			Id:       "motusdao-psy",
			Name:     "$PSY Token Staking",
			ApyBps:   1850,
			Tvl:      950_000,
			Protocol: "MotusDAO Treasury",
			Risk:     "Medium",
			MinStake: 500_000_000,
		},
	}
}

// poolAddress derives a stable stand-in key per pool id. Real pool accounts
// would come from the protocol registries.
func poolAddress(poolId string) solana.PublicKey {
	sum := sha256.Sum256([]byte("yield_pool:" + poolId))
	return solana.PublicKeyFromBytes(sum[:])
}

func (s *Service) Options() []YieldOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]YieldOption(nil), s.options...)
}

func (s *Service) Earnings() Earnings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.earnings
}

func (s *Service) option(poolId string) (YieldOption, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, option := range s.options {
		if option.Id == poolId {
			return option, true
		}
	}
	return YieldOption{}, false
}

// Stake stakes earnings into a pool via the stakeUbi instruction.
func (s *Service) Stake(ctx context.Context, poolId string, amount uint64) (solana.Signature, error) {
	if !s.guard.TryAcquire(identity.ActionStakeUbi) {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "stake already in progress")
	}
	defer s.guard.Release(identity.ActionStakeUbi)

	option, ok := s.option(poolId)
	if !ok {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrInvalidInput, "unknown yield pool "+poolId)
	}
	if amount < option.MinStake {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrInvalidInput,
			fmt.Sprintf("stake %d below pool minimum %d", amount, option.MinStake))
	}

	instruction, err := program.NewStakeUbiInstruction(s.ProgramID, s.Signer.PublicKey())
	if err != nil {
		return solana.Signature{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building stake instruction failed", err)
	}

	signature, err := s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
	if err != nil {
		return solana.Signature{}, err
	}

	s.mu.Lock()
	s.earnings.FromYieldFarming += amount
	s.mu.Unlock()

	return signature, nil
}

// ClaimUbi claims accrued UBI. The claim carries a session-category proof so
// the program can gate payouts on attested participation.
func (s *Service) ClaimUbi(ctx context.Context, category string) (solana.Signature, error) {
	if !s.guard.TryAcquire(identity.ActionClaimUbi) {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "claim already in progress")
	}
	defer s.guard.Release(identity.ActionClaimUbi)

	if category == "" {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrInvalidInput, "claim needs a session category")
	}

	_, proof, err := s.Encryptor.Encrypt(ctx, []byte(category))
	if err != nil {
		return solana.Signature{}, reasoncodes.Wrap(reasoncodes.ErrEncryptionFailed, "claim proof generation failed", err)
	}

	instruction, err := program.NewClaimUbiInstruction(s.ProgramID, s.Signer.PublicKey(), program.ClaimUbiArgs{
		ZkpProof: proof,
		Category: category,
	})
	if err != nil {
		return solana.Signature{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building claim instruction failed", err)
	}

	return s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
}

// AutoCompound moves earnings into the per-user compound account targeting
// the chosen pool.
func (s *Service) AutoCompound(ctx context.Context, poolId string, amount uint64) (solana.Signature, error) {
	if !s.guard.TryAcquire(identity.ActionAutoCompound) {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "auto-compound already in progress")
	}
	defer s.guard.Release(identity.ActionAutoCompound)

	pool, ok := s.pools[poolId]
	if !ok {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrInvalidInput, "unknown yield pool "+poolId)
	}
	if amount == 0 {
		return solana.Signature{}, reasoncodes.New(reasoncodes.ErrInvalidInput, "auto-compound amount must be non-zero")
	}

	compoundAddr, _, err := program.DeriveCompoundAddress(s.ProgramID, s.Signer.PublicKey())
	if err != nil {
		return solana.Signature{}, err
	}

	instruction, err := program.NewAutoCompoundInstruction(s.ProgramID, s.Signer.PublicKey(), compoundAddr, program.AutoCompoundArgs{
		Amount:    amount,
		YieldPool: pool,
	})
	if err != nil {
		return solana.Signature{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building auto-compound instruction failed", err)
	}

	signature, err := s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
	if err != nil {
		return solana.Signature{}, err
	}

	s.mu.Lock()
	s.earnings.AutoCompounded += amount
	s.mu.Unlock()

	return signature, nil
}
