package program

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func methodDiscriminator(method string) []byte {
	sum := sha256.Sum256([]byte("global:" + method))
	return sum[:8]
}

func TestMintHnftInstructionLayout(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	hnft, _, err := DeriveHnftAddress(testProgramID, user)
	if err != nil {
		t.Fatalf("DeriveHnftAddress failed: %v", err)
	}

	instruction, err := NewMintHnftInstruction(testProgramID, user, hnft, MintHnftArgs{
		EncryptedData: "walrus://walrus_abc",
		ZkProof:       "zk_proof_123",
		Category:      2,
	})
	if err != nil {
		t.Fatalf("NewMintHnftInstruction failed: %v", err)
	}

	if !instruction.ProgramID().Equals(testProgramID) {
		t.Errorf("Wrong program id: %s", instruction.ProgramID())
	}

	data, err := instruction.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if !bytes.Equal(data[:8], methodDiscriminator("mint_hnft")) {
		t.Error("Discriminator does not match sha256(global:mint_hnft)[:8]")
	}

	// Borsh: string = u32 length prefix + bytes.
	payload := data[8:]
	strLen := binary.LittleEndian.Uint32(payload[:4])
	if got := string(payload[4 : 4+strLen]); got != "walrus://walrus_abc" {
		t.Errorf("Encrypted data encoded wrong: %q", got)
	}
	if payload[len(payload)-1] != 2 {
		t.Errorf("Category byte encoded wrong: %d", payload[len(payload)-1])
	}

	accounts := instruction.Accounts()
	if len(accounts) != 3 {
		t.Fatalf("Expected 3 accounts, got %d", len(accounts))
	}
	if !accounts[0].PublicKey.Equals(user) || !accounts[0].IsSigner || !accounts[0].IsWritable {
		t.Error("User must be a writable signer")
	}
	if !accounts[1].PublicKey.Equals(hnft) || accounts[1].IsSigner || !accounts[1].IsWritable {
		t.Error("Hnft account must be writable and not a signer")
	}
	if !accounts[2].PublicKey.Equals(solana.SystemProgramID) {
		t.Error("Third account must be the system program")
	}
}

func TestStakeUbiInstructionHasNoArgs(t *testing.T) {
	user := solana.NewWallet().PublicKey()

	instruction, err := NewStakeUbiInstruction(testProgramID, user)
	if err != nil {
		t.Fatalf("NewStakeUbiInstruction failed: %v", err)
	}

	data, err := instruction.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if len(data) != 8 {
		t.Errorf("Expected bare discriminator, got %d bytes", len(data))
	}
	if !bytes.Equal(data, methodDiscriminator("stake_ubi")) {
		t.Error("Discriminator does not match sha256(global:stake_ubi)[:8]")
	}
}

func TestAutoCompoundInstructionEncodesPool(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()
	compound, _, err := DeriveCompoundAddress(testProgramID, user)
	if err != nil {
		t.Fatalf("DeriveCompoundAddress failed: %v", err)
	}

	instruction, err := NewAutoCompoundInstruction(testProgramID, user, compound, AutoCompoundArgs{
		Amount:    500,
		YieldPool: pool,
	})
	if err != nil {
		t.Fatalf("NewAutoCompoundInstruction failed: %v", err)
	}

	data, err := instruction.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if !bytes.Equal(data[:8], methodDiscriminator("auto_compound")) {
		t.Error("Discriminator does not match sha256(global:auto_compound)[:8]")
	}
	if amount := binary.LittleEndian.Uint64(data[8:16]); amount != 500 {
		t.Errorf("Amount encoded wrong: %d", amount)
	}
	if !bytes.Equal(data[16:48], pool.Bytes()) {
		t.Error("Yield pool key encoded wrong")
	}
}

func TestPlaceBidInstructionAccounts(t *testing.T) {
	bidder := solana.NewWallet().PublicKey()
	listing := solana.NewWallet().PublicKey()
	bid, _, err := DeriveBidAddress(testProgramID, listing, bidder)
	if err != nil {
		t.Fatalf("DeriveBidAddress failed: %v", err)
	}

	instruction, err := NewPlaceBidInstruction(testProgramID, bidder, listing, bid, PlaceBidArgs{BidAmount: 1_000})
	if err != nil {
		t.Fatalf("NewPlaceBidInstruction failed: %v", err)
	}

	accounts := instruction.Accounts()
	if len(accounts) != 4 {
		t.Fatalf("Expected 4 accounts, got %d", len(accounts))
	}
	if !accounts[0].PublicKey.Equals(bidder) || !accounts[0].IsSigner {
		t.Error("Bidder must sign")
	}
	if !accounts[1].PublicKey.Equals(listing) || !accounts[2].PublicKey.Equals(bid) {
		t.Error("Listing and bid accounts out of order")
	}
}
