package program

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestHnftRecordRoundTrip(t *testing.T) {
	record := &HnftRecord{
		Owner:         solana.NewWallet().PublicKey(),
		EncryptedData: "walrus://walrus_abc",
		ZkProof:       "zk_proof_123",
		Category:      1,
		MintTimestamp: 1735689600,
		IsSoulbound:   true,
	}

	data, err := EncodeHnftRecord(record)
	if err != nil {
		t.Fatalf("EncodeHnftRecord failed: %v", err)
	}

	decoded, err := DecodeHnftRecord(data)
	if err != nil {
		t.Fatalf("DecodeHnftRecord failed: %v", err)
	}
	if !decoded.Owner.Equals(record.Owner) {
		t.Errorf("Owner mismatch: %s", decoded.Owner)
	}
	if decoded.EncryptedData != record.EncryptedData || decoded.ZkProof != record.ZkProof {
		t.Error("Payload fields mismatch after round trip")
	}
	if !decoded.IsSoulbound {
		t.Error("Soulbound flag lost")
	}
}

func TestDecodeRejectsForeignDiscriminator(t *testing.T) {
	record := &HnftRecord{Owner: solana.NewWallet().PublicKey()}
	data, err := EncodeHnftRecord(record)
	if err != nil {
		t.Fatalf("EncodeHnftRecord failed: %v", err)
	}

	if _, err := DecodeDataListing(data); err == nil {
		t.Error("DecodeDataListing accepted an HNFT record")
	}

	if _, err := DecodeHnftRecord(data[:4]); err == nil {
		t.Error("DecodeHnftRecord accepted truncated data")
	}
}
