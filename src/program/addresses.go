package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

// Seed tags for the program's derived accounts. The program guarantees a
// unique derivation per (seed, key...) combination.
const (
	SeedHnft     = "hnft"
	SeedDataset  = "dataset"
	SeedListing  = "listing"
	SeedBid      = "bid"
	SeedCompound = "compound"
)

// ParsePublicKey validates a base58 key string before any network call is
// attempted.
func ParsePublicKey(raw string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "malformed public key "+raw, err)
	}
	return key, nil
}

func derive(programID solana.PublicKey, seeds ...[]byte) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "program address derivation failed", err)
	}
	return addr, bump, nil
}

// DeriveHnftAddress computes the identity record address for an owner key.
// The derivation is deterministic: the same owner always maps to the same
// address.
func DeriveHnftAddress(programID, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	if owner.IsZero() {
		return solana.PublicKey{}, 0, reasoncodes.New(reasoncodes.ErrInvalidInput, "owner key is zero")
	}
	return derive(programID, []byte(SeedHnft), owner.Bytes())
}

// DeriveDatasetAddress computes the dataset record address keyed off an
// existing identity record.
func DeriveDatasetAddress(programID, hnft solana.PublicKey) (solana.PublicKey, uint8, error) {
	if hnft.IsZero() {
		return solana.PublicKey{}, 0, reasoncodes.New(reasoncodes.ErrInvalidInput, "hnft address is zero")
	}
	return derive(programID, []byte(SeedDataset), hnft.Bytes())
}

func DeriveListingAddress(programID, hnft solana.PublicKey) (solana.PublicKey, uint8, error) {
	if hnft.IsZero() {
		return solana.PublicKey{}, 0, reasoncodes.New(reasoncodes.ErrInvalidInput, "hnft address is zero")
	}
	return derive(programID, []byte(SeedListing), hnft.Bytes())
}

func DeriveBidAddress(programID, listing, bidder solana.PublicKey) (solana.PublicKey, uint8, error) {
	if listing.IsZero() || bidder.IsZero() {
		return solana.PublicKey{}, 0, reasoncodes.New(reasoncodes.ErrInvalidInput, "listing or bidder key is zero")
	}
	return derive(programID, []byte(SeedBid), listing.Bytes(), bidder.Bytes())
}

func DeriveCompoundAddress(programID, user solana.PublicKey) (solana.PublicKey, uint8, error) {
	if user.IsZero() {
		return solana.PublicKey{}, 0, reasoncodes.New(reasoncodes.ErrInvalidInput, "user key is zero")
	}
	return derive(programID, []byte(SeedCompound), user.Bytes())
}
