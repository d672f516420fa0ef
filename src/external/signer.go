package external

import (
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

// Signer is the wallet boundary: it exposes the current public key and signs
// transactions. The ledger client never touches private key material directly.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(tx *solana.Transaction) error
}

// KeypairSigner signs with a locally held keypair, loaded from a standard
// keygen file.
type KeypairSigner struct {
	privateKey solana.PrivateKey
}

func NewKeypairSigner(privateKey solana.PrivateKey) *KeypairSigner {
	return &KeypairSigner{privateKey: privateKey}
}

func LoadKeypairSigner(keypairPath string) (*KeypairSigner, error) {
	if keypairPath == "" {
		homeDir, _ := os.UserHomeDir()
		keypairPath = filepath.Join(homeDir, ".psychat", "solana", "id.json")
	}
	privateKey, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrSignerUnavailable, "reading keypair from "+keypairPath+" failed", err)
	}
	return &KeypairSigner{privateKey: privateKey}, nil
}

func (ks *KeypairSigner) PublicKey() solana.PublicKey {
	return ks.privateKey.PublicKey()
}

func (ks *KeypairSigner) Sign(tx *solana.Transaction) error {
	_, err := tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(ks.privateKey.PublicKey()) {
			return &ks.privateKey
		}
		return nil
	})
	if err != nil {
		return reasoncodes.Wrap(reasoncodes.ErrSignerUnavailable, "transaction signing failed", err)
	}
	return nil
}
