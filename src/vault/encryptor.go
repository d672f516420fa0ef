package vault

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Encryptor is the confidential-computation boundary. The production system
// delegates to an external encryption network; this process only ever sees
// the opaque ciphertext and proof strings it returns.
type Encryptor interface {
	Encrypt(ctx context.Context, plaintext []byte) (ciphertext string, proof string, err error)
}

// ArciumEncryptor is the stand-in implementation for the Arcium network:
// ciphertext is base64 of the plaintext and the proof is an opaque tagged
// string. No real proof generation happens here.
type ArciumEncryptor struct{}

func NewArciumEncryptor() *ArciumEncryptor {
	return &ArciumEncryptor{}
}

func (ae *ArciumEncryptor) Encrypt(_ context.Context, plaintext []byte) (string, string, error) {
	ciphertext := base64.StdEncoding.EncodeToString(plaintext)
	proof := fmt.Sprintf("zk_proof_%d_%s", time.Now().UnixMilli(), shortID())
	return ciphertext, proof, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
}
