package marketplace

import (
	"context"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
	"github.com/gerryalvrz/psychat-solana/src/external"
	"github.com/gerryalvrz/psychat-solana/src/identity"
	"github.com/gerryalvrz/psychat-solana/src/persistence"
)

func TestMain(m *testing.M) {
	logger.InitDefaultLogger(logger.GlobalLoggerConfig{})
	m.Run()
}

var testProgramID = solana.MustPublicKeyFromBase58("DK9t6EFKWMZr1FwQxuuXwRe2GJ75MuqQ7qdeqKYiqCA6")

type fakeSigner struct {
	key solana.PrivateKey
}

func (fs *fakeSigner) PublicKey() solana.PublicKey      { return fs.key.PublicKey() }
func (fs *fakeSigner) Sign(_ *solana.Transaction) error { return nil }

type fakeEncryptor struct{}

func (fakeEncryptor) Encrypt(_ context.Context, plaintext []byte) (string, string, error) {
	return string(plaintext), "zk_proof_1", nil
}

type fakeObjects struct{}

func (fakeObjects) Store(_ context.Context, _ []byte) (string, error)    { return "walrus_x", nil }
func (fakeObjects) Retrieve(_ context.Context, _ string) ([]byte, error) { return nil, nil }

type fakeLedger struct {
	mu        sync.Mutex
	submitted int
}

func (fl *fakeLedger) LookupAccount(_ context.Context, _ solana.PublicKey) (external.AccountLookup, error) {
	return external.AccountLookup{}, nil
}

func (fl *fakeLedger) SubmitInstruction(_ context.Context, _ solana.Instruction, _ external.Signer) (solana.Signature, error) {
	fl.mu.Lock()
	fl.submitted++
	fl.mu.Unlock()
	return solana.Signature{1}, nil
}

func (fl *fakeLedger) FindSignatureForAddress(_ context.Context, _ solana.PublicKey) (solana.Signature, bool, error) {
	return solana.Signature{}, false, nil
}

func newTestService(t *testing.T, withIdentity bool) (*Service, *fakeLedger) {
	t.Helper()

	ledger := &fakeLedger{}
	signer := &fakeSigner{key: solana.NewWallet().PrivateKey}
	identitySvc := identity.NewService(ledger, signer, fakeEncryptor{}, fakeObjects{}, persistence.NewMemoryStore(), testProgramID)
	if withIdentity {
		if _, err := identitySvc.MintIdentity(context.Background(), nil, 0); err != nil {
			t.Fatalf("Identity setup failed: %v", err)
		}
		ledger.mu.Lock()
		ledger.submitted = 0
		ledger.mu.Unlock()
	}

	return NewService(ledger, signer, identitySvc, testProgramID), ledger
}

func TestListingsFilterByCategory(t *testing.T) {
	service, _ := newTestService(t, false)

	all := service.Listings("all")
	if len(all) != 3 {
		t.Fatalf("Expected 3 seeded listings, got %d", len(all))
	}

	anxiety := service.Listings("anxiety")
	if len(anxiety) != 1 || anxiety[0].Title != "Anxiety Trends Q3 2024" {
		t.Errorf("Anxiety filter wrong: %+v", anxiety)
	}

	if got := service.Listings("relationships"); len(got) != 0 {
		t.Errorf("Expected no relationship listings, got %d", len(got))
	}
}

func TestListDataRequiresIdentity(t *testing.T) {
	service, ledger := newTestService(t, false)

	_, err := service.ListData(context.Background(), "My Dataset", "stress", 1_000, CurrencySOL)
	if !reasoncodes.HasCode(err, reasoncodes.ErrIdentityRequired) {
		t.Fatalf("Expected IdentityRequired, got %v", err)
	}
	if ledger.submitted != 0 {
		t.Error("No transaction may be submitted without an identity")
	}
}

func TestListDataCreatesOnChainListing(t *testing.T) {
	service, ledger := newTestService(t, true)

	listing, err := service.ListData(context.Background(), "Sleep Patterns 2025", "anxiety", 2_000_000_000, CurrencySOL)
	if err != nil {
		t.Fatalf("ListData failed: %v", err)
	}

	if ledger.submitted != 1 {
		t.Errorf("Expected one submission, got %d", ledger.submitted)
	}
	if listing.Address == "" || listing.Signature == "" {
		t.Error("On-chain listing must carry address and signature")
	}
	if listing.Seller == "" {
		t.Error("Seller must be the signer key")
	}

	catalog := service.Listings("anxiety")
	if len(catalog) != 2 {
		t.Errorf("New listing not in catalog: %d anxiety entries", len(catalog))
	}
}

func TestListDataValidatesInput(t *testing.T) {
	service, _ := newTestService(t, true)

	if _, err := service.ListData(context.Background(), "", "stress", 1, CurrencySOL); !reasoncodes.HasCode(err, reasoncodes.ErrInvalidInput) {
		t.Errorf("Empty title accepted: %v", err)
	}
	if _, err := service.ListData(context.Background(), "Title", "stress", 0, CurrencySOL); !reasoncodes.HasCode(err, reasoncodes.ErrInvalidInput) {
		t.Errorf("Zero price accepted: %v", err)
	}
}

func TestPlaceBidOnSeededListing(t *testing.T) {
	service, ledger := newTestService(t, false)

	before := service.Listings("anxiety")[0]
	bid, err := service.PlaceBid(context.Background(), before.Id, before.Price)
	if err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}

	// Seeded demo listings have no on-chain account to bid against.
	if ledger.submitted != 0 {
		t.Error("Seeded listing bid must not hit the ledger")
	}
	if bid.Amount != before.Price {
		t.Errorf("Bid amount mismatch: %d", bid.Amount)
	}

	after := service.Listings("anxiety")[0]
	if after.Bids != before.Bids+1 {
		t.Errorf("Bid count not incremented: %d -> %d", before.Bids, after.Bids)
	}
}

func TestPlaceBidValidation(t *testing.T) {
	service, _ := newTestService(t, false)
	listing := service.Listings("all")[0]

	if _, err := service.PlaceBid(context.Background(), "no-such-listing", 10); !reasoncodes.HasCode(err, reasoncodes.ErrInvalidInput) {
		t.Errorf("Unknown listing accepted: %v", err)
	}
	if _, err := service.PlaceBid(context.Background(), listing.Id, listing.Price-1); !reasoncodes.HasCode(err, reasoncodes.ErrInvalidInput) {
		t.Errorf("Underpriced bid accepted: %v", err)
	}
}

func TestPlaceBidOnOwnListingGoesOnChain(t *testing.T) {
	service, ledger := newTestService(t, true)

	listing, err := service.ListData(context.Background(), "Focus Sessions", "stress", 1_000, CurrencyRUSD)
	if err != nil {
		t.Fatalf("ListData failed: %v", err)
	}

	bid, err := service.PlaceBid(context.Background(), listing.Id, 1_500)
	if err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}
	if bid.Signature == "" {
		t.Error("On-chain bid must carry a signature")
	}
	if ledger.submitted != 2 {
		t.Errorf("Expected listing + bid submissions, got %d", ledger.submitted)
	}
}
