package program

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

// The on-chain program exposes a fixed instruction set. Each instruction has
// its own typed argument struct and builder so an unknown instruction name is
// a compile error, not a runtime one.

// instructionData prefixes the borsh-encoded args with the 8-byte method
// discriminator the program's dispatcher expects.
func instructionData(method string, args interface{}) ([]byte, error) {
	disc := sha256.Sum256([]byte("global:" + method))
	data := make([]byte, 0, 8)
	data = append(data, disc[:8]...)

	if args == nil {
		return data, nil
	}

	encoded, err := borsh.Serialize(args)
	if err != nil {
		return nil, err
	}
	return append(data, encoded...), nil
}

type MintHnftArgs struct {
	EncryptedData string
	ZkProof       string
	Category      uint8
}

func NewMintHnftInstruction(programID, user, hnft solana.PublicKey, args MintHnftArgs) (solana.Instruction, error) {
	data, err := instructionData("mint_hnft", args)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(hnft, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

type AppendHistoryArgs struct {
	Uri       string
	TraitId   string
	TraitData string
}

func NewAppendHistoryInstruction(programID, user, hnft solana.PublicKey, args AppendHistoryArgs) (solana.Instruction, error) {
	data, err := instructionData("append_history", args)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(hnft, true, false),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

type MintDatasetNftArgs struct {
	DatasetUri string
	Category   string
}

func NewMintDatasetNftInstruction(programID, user, hnft, dataset solana.PublicKey, args MintDatasetNftArgs) (solana.Instruction, error) {
	data, err := instructionData("mint_dataset_nft", args)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(hnft, true, false),
		solana.NewAccountMeta(dataset, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

type ListDataArgs struct {
	Price       uint64
	Currency    uint8
	Description string
}

func NewListDataInstruction(programID, user, hnft, listing solana.PublicKey, args ListDataArgs) (solana.Instruction, error) {
	data, err := instructionData("list_data", args)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(hnft, true, false),
		solana.NewAccountMeta(listing, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

type PlaceBidArgs struct {
	BidAmount uint64
}

func NewPlaceBidInstruction(programID, bidder, listing, bid solana.PublicKey, args PlaceBidArgs) (solana.Instruction, error) {
	data, err := instructionData("place_bid", args)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(bidder, true, true),
		solana.NewAccountMeta(listing, true, false),
		solana.NewAccountMeta(bid, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

func NewStakeUbiInstruction(programID, user solana.PublicKey) (solana.Instruction, error) {
	data, err := instructionData("stake_ubi", nil)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

type ClaimUbiArgs struct {
	ZkpProof string
	Category string
}

func NewClaimUbiInstruction(programID, user solana.PublicKey, args ClaimUbiArgs) (solana.Instruction, error) {
	data, err := instructionData("claim_ubi", args)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

type AutoCompoundArgs struct {
	Amount    uint64
	YieldPool solana.PublicKey
}

func NewAutoCompoundInstruction(programID, user, compound solana.PublicKey, args AutoCompoundArgs) (solana.Instruction, error) {
	data, err := instructionData("auto_compound", args)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(compound, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}
