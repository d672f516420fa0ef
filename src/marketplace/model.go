package marketplace

import "github.com/gerryalvrz/psychat-solana/pkg/utilities/timeutil"

// Currency codes as encoded on-chain.
const (
	CurrencySOL  uint8 = 0
	CurrencyRUSD uint8 = 1
)

func CurrencyName(code uint8) string {
	if code == CurrencyRUSD {
		return "rUSD"
	}
	return "SOL"
}

// Listing is a marketplace entry for an anonymized dataset. Price is in
// lamports for SOL listings and in rUSD base units otherwise.
type Listing struct {
	Id          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       uint64           `json:"price"`
	Currency    uint8            `json:"currency"`
	Seller      string           `json:"seller"`
	Bids        int              `json:"bids"`
	EndTime     timeutil.TimeUTC `json:"end_time"`
	Liquidity   uint64           `json:"liquidity"`
	Address     string           `json:"address,omitempty"`
	Signature   string           `json:"signature,omitempty"`
}

type Bid struct {
	Id        string           `json:"id"`
	ListingId string           `json:"listing_id"`
	Amount    uint64           `json:"amount"`
	Bidder    string           `json:"bidder"`
	Timestamp timeutil.TimeUTC `json:"timestamp"`
	Signature string           `json:"signature,omitempty"`
}
