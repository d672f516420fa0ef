package program

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

// Ledger record layouts. Each account starts with the 8-byte discriminator of
// its record type, followed by the borsh-encoded fields.

type HnftRecord struct {
	Owner         solana.PublicKey
	EncryptedData string
	ZkProof       string
	Category      uint8
	MintTimestamp int64
	IsListed      bool
	IsSoulbound   bool
	ListingPrice  uint64
}

type DatasetRecord struct {
	Owner       solana.PublicKey
	Hnft        solana.PublicKey
	DatasetUri  string
	Category    string
	CreatedAt   int64
	IsTradeable bool
}

type DataListing struct {
	Hnft        solana.PublicKey
	Seller      solana.PublicKey
	Price       uint64
	Currency    uint8
	Description string
	CreatedAt   int64
	IsActive    bool
	BidCount    uint64
}

type Bid struct {
	Listing   solana.PublicKey
	Bidder    solana.PublicKey
	Amount    uint64
	Timestamp int64
	IsActive  bool
}

type AutoCompoundRecord struct {
	User      solana.PublicKey
	Amount    uint64
	YieldPool solana.PublicKey
	Timestamp int64
}

func accountDiscriminator(name string) []byte {
	disc := sha256.Sum256([]byte("account:" + name))
	return disc[:8]
}

func decodeRecord(name string, data []byte, out interface{}) error {
	if len(data) < 8 {
		return fmt.Errorf("account data too short for %s record: %d bytes", name, len(data))
	}
	if !bytes.Equal(data[:8], accountDiscriminator(name)) {
		return fmt.Errorf("account data is not a %s record", name)
	}
	return borsh.Deserialize(out, data[8:])
}

func DecodeHnftRecord(data []byte) (*HnftRecord, error) {
	var record HnftRecord
	if err := decodeRecord("HNFT", data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func DecodeDatasetRecord(data []byte) (*DatasetRecord, error) {
	var record DatasetRecord
	if err := decodeRecord("Dataset", data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func DecodeDataListing(data []byte) (*DataListing, error) {
	var record DataListing
	if err := decodeRecord("DataListing", data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func DecodeBid(data []byte) (*Bid, error) {
	var record Bid
	if err := decodeRecord("Bid", data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func DecodeAutoCompoundRecord(data []byte) (*AutoCompoundRecord, error) {
	var record AutoCompoundRecord
	if err := decodeRecord("AutoCompoundRecord", data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// EncodeHnftRecord is the inverse of DecodeHnftRecord. Used by tests and
// local fakes; the real program writes these accounts itself.
func EncodeHnftRecord(record *HnftRecord) ([]byte, error) {
	body, err := borsh.Serialize(*record)
	if err != nil {
		return nil, err
	}
	return append(accountDiscriminator("HNFT"), body...), nil
}
