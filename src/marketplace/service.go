package marketplace

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
	"github.com/gerryalvrz/psychat-solana/pkg/utilities/timeutil"
	"github.com/gerryalvrz/psychat-solana/src/external"
	"github.com/gerryalvrz/psychat-solana/src/identity"
	"github.com/gerryalvrz/psychat-solana/src/program"
)

// Service backs the data marketplace. Listings created in this process go
// through the real listData / placeBid transaction paths; the catalog is
// seeded with demo entries so the marketplace is never empty on a fresh
// devnet deployment.
type Service struct {
	Ledger    external.LedgerClient
	Signer    external.Signer
	Identity  *identity.Service
	ProgramID solana.PublicKey

	guard *identity.ActionGuard

	mu       sync.Mutex
	listings []Listing
	bids     []Bid
}

func NewService(
	ledger external.LedgerClient,
	signer external.Signer,
	identitySvc *identity.Service,
	programID solana.PublicKey,
) *Service {
	return &Service{
		Ledger:    ledger,
		Signer:    signer,
		Identity:  identitySvc,
		ProgramID: programID,
		guard:     identitySvc.Guard(),
		listings:  seedListings(),
	}
}

func seedListings() []Listing {
	now := timeutil.NowUTC()
	day := int64(24 * 60 * 60)
	return []Listing{
		{
			Id:          "1",
			Title:       "Anxiety Trends Q3 2024",
			Description: "Aggregated insights from 1,200+ therapy sessions focusing on anxiety patterns, triggers, and coping mechanisms.",
			Category:    "anxiety",
			Price:       2_500_000_000,
			Currency:    CurrencySOL,
			Seller:      "MotusDAO Research",
			Bids:        12,
			EndTime:     now.AddSeconds(7 * day),
			Liquidity:   15_000,
		},
		{
			Id:          "2",
			Title:       "Depression Recovery Patterns",
			Description: "Anonymized data from 800+ users showing recovery trajectories and effective intervention points.",
			Category:    "depression",
			Price:       1_800_000,
			Currency:    CurrencyRUSD,
			Seller:      "PsyChat Community",
			Bids:        8,
			EndTime:     now.AddSeconds(5 * day),
			Liquidity:   8_500,
		},
		{
			Id:          "3",
			Title:       "Workplace Stress Analytics",
			Description: "Professional stress patterns and productivity correlations from remote work data.",
			Category:    "stress",
			Price:       3_200_000_000,
			Currency:    CurrencySOL,
			Seller:      "Corporate Wellness",
			Bids:        15,
			EndTime:     now.AddSeconds(3 * day),
			Liquidity:   22_000,
		},
	}
}

// Listings returns the catalog, optionally filtered by category. An empty
// category or "all" returns everything.
func (s *Service) Listings(category string) []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category == "" || category == "all" {
		return append([]Listing(nil), s.listings...)
	}

	var filtered []Listing
	for _, listing := range s.listings {
		if listing.Category == category {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

// ListData lists the caller's dataset for sale. The identity record must
// exist locally; the listing account is derived from it.
func (s *Service) ListData(ctx context.Context, title, category string, price uint64, currency uint8) (Listing, error) {
	if !s.guard.TryAcquire(identity.ActionListData) {
		return Listing{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "listing already in progress")
	}
	defer s.guard.Release(identity.ActionListData)

	if title == "" || price == 0 {
		return Listing{}, reasoncodes.New(reasoncodes.ErrInvalidInput, "listing needs a title and a non-zero price")
	}

	hnftAddr, ok := s.Identity.IdentityAddress()
	if !ok {
		return Listing{}, reasoncodes.New(reasoncodes.ErrIdentityRequired, "mint your identity record before listing data")
	}

	listingAddr, _, err := program.DeriveListingAddress(s.ProgramID, hnftAddr)
	if err != nil {
		return Listing{}, err
	}

	description := AnonymizedInsights(s.Identity.State().Status, category)
	instruction, err := program.NewListDataInstruction(s.ProgramID, s.Signer.PublicKey(), hnftAddr, listingAddr, program.ListDataArgs{
		Price:       price,
		Currency:    currency,
		Description: description,
	})
	if err != nil {
		return Listing{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building listing instruction failed", err)
	}

	signature, err := s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
	if err != nil {
		return Listing{}, err
	}

	listing := Listing{
		Id:          uuid.NewString(),
		Title:       title,
		Description: description,
		Category:    category,
		Price:       price,
		Currency:    currency,
		Seller:      s.Signer.PublicKey().String(),
		EndTime:     timeutil.NowUTC().AddSeconds(7 * 24 * 60 * 60),
		Address:     listingAddr.String(),
		Signature:   signature.String(),
	}

	s.mu.Lock()
	s.listings = append(s.listings, listing)
	s.mu.Unlock()

	return listing, nil
}

// PlaceBid bids on a listing. Listings with an on-chain address go through
// the placeBid instruction; seeded demo listings only update local state.
func (s *Service) PlaceBid(ctx context.Context, listingId string, amount uint64) (Bid, error) {
	if !s.guard.TryAcquire(identity.ActionPlaceBid) {
		return Bid{}, reasoncodes.New(reasoncodes.ErrActionInFlight, "bid already in progress")
	}
	defer s.guard.Release(identity.ActionPlaceBid)

	s.mu.Lock()
	index := -1
	for i, listing := range s.listings {
		if listing.Id == listingId {
			index = i
			break
		}
	}
	var listing Listing
	if index >= 0 {
		listing = s.listings[index]
	}
	s.mu.Unlock()

	if index < 0 {
		return Bid{}, reasoncodes.New(reasoncodes.ErrInvalidInput, "unknown listing "+listingId)
	}
	if amount < listing.Price {
		return Bid{}, reasoncodes.New(reasoncodes.ErrInvalidInput,
			fmt.Sprintf("bid %d below listing price %d", amount, listing.Price))
	}

	bid := Bid{
		Id:        uuid.NewString(),
		ListingId: listingId,
		Amount:    amount,
		Bidder:    s.Signer.PublicKey().String(),
		Timestamp: timeutil.NowUTC(),
	}

	if listing.Address != "" {
		listingAddr, err := program.ParsePublicKey(listing.Address)
		if err != nil {
			return Bid{}, err
		}
		bidAddr, _, err := program.DeriveBidAddress(s.ProgramID, listingAddr, s.Signer.PublicKey())
		if err != nil {
			return Bid{}, err
		}
		instruction, err := program.NewPlaceBidInstruction(s.ProgramID, s.Signer.PublicKey(), listingAddr, bidAddr, program.PlaceBidArgs{
			BidAmount: amount,
		})
		if err != nil {
			return Bid{}, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "building bid instruction failed", err)
		}
		signature, err := s.Ledger.SubmitInstruction(ctx, instruction, s.Signer)
		if err != nil {
			return Bid{}, err
		}
		bid.Signature = signature.String()
	}

	s.mu.Lock()
	s.listings[index].Bids++
	s.bids = append(s.bids, bid)
	s.mu.Unlock()

	return bid, nil
}

// AnonymizedInsights produces the public-facing description of a dataset.
// Only aggregates ever leave the vault, so the description never embeds
// session content.
func AnonymizedInsights(status identity.IdentityStatus, category string) string {
	if category == "" {
		category = "general"
	}
	if status != identity.StatusConfirmed {
		return "Anonymized insights pending identity confirmation"
	}
	return fmt.Sprintf("Anonymized %s insights from encrypted therapy sessions", category)
}
