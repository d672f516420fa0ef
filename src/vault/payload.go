package vault

import (
	"context"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

// Prepared holds the result of payload preparation: the ciphertext, the
// proof string, and the content pointer usable as a record field.
type Prepared struct {
	Ciphertext string
	Proof      string
	Pointer    string
}

// PreparePayload runs serialized conversation content through encryption and
// upload. The step has no on-chain side effect and may be retried freely;
// failure of either collaborator aborts the enclosing mint attempt before
// any transaction is built.
func PreparePayload(ctx context.Context, encryptor Encryptor, store ObjectStore, content []byte) (Prepared, error) {
	ciphertext, proof, err := encryptor.Encrypt(ctx, content)
	if err != nil {
		return Prepared{}, reasoncodes.Wrap(reasoncodes.ErrEncryptionFailed, "encrypting conversation payload failed", err)
	}

	cid, err := store.Store(ctx, []byte(ciphertext))
	if err != nil {
		return Prepared{}, reasoncodes.Wrap(reasoncodes.ErrStorageFailed, "storing encrypted payload failed", err)
	}

	return Prepared{
		Ciphertext: ciphertext,
		Proof:      proof,
		Pointer:    PointerFor(cid),
	}, nil
}
