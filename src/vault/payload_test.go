package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

type stubEncryptor struct {
	ciphertext string
	proof      string
	err        error
}

func (se stubEncryptor) Encrypt(_ context.Context, _ []byte) (string, string, error) {
	return se.ciphertext, se.proof, se.err
}

type stubStore struct {
	cid    string
	err    error
	stored []byte
}

func (ss *stubStore) Store(_ context.Context, data []byte) (string, error) {
	ss.stored = data
	return ss.cid, ss.err
}

func (ss *stubStore) Retrieve(_ context.Context, _ string) ([]byte, error) {
	return ss.stored, nil
}

func TestPreparePayload(t *testing.T) {
	encryptor := stubEncryptor{ciphertext: "b64:ZW5jcnlwdGVk", proof: "zk_proof_123"}
	store := &stubStore{cid: "walrus_abc"}

	prepared, err := PreparePayload(context.Background(), encryptor, store, []byte("session transcript"))
	if err != nil {
		t.Fatalf("PreparePayload failed: %v", err)
	}

	if prepared.Ciphertext != "b64:ZW5jcnlwdGVk" {
		t.Errorf("Ciphertext mismatch: %q", prepared.Ciphertext)
	}
	if prepared.Proof != "zk_proof_123" {
		t.Errorf("Proof mismatch: %q", prepared.Proof)
	}
	if prepared.Pointer != "walrus://walrus_abc" {
		t.Errorf("Pointer mismatch: %q", prepared.Pointer)
	}
	if string(store.stored) != prepared.Ciphertext {
		t.Error("Store must receive the ciphertext, not the plaintext")
	}
}

func TestPreparePayloadEncryptionFailure(t *testing.T) {
	encryptor := stubEncryptor{err: errors.New("network down")}
	store := &stubStore{cid: "walrus_abc"}

	_, err := PreparePayload(context.Background(), encryptor, store, []byte("x"))
	if !reasoncodes.HasCode(err, reasoncodes.ErrEncryptionFailed) {
		t.Errorf("Expected EncryptionFailed, got %v", err)
	}
	if store.stored != nil {
		t.Error("Nothing may reach storage when encryption fails")
	}
}

func TestPreparePayloadStorageFailure(t *testing.T) {
	encryptor := stubEncryptor{ciphertext: "ct", proof: "zk_proof_1"}
	store := &stubStore{err: errors.New("disk full")}

	_, err := PreparePayload(context.Background(), encryptor, store, []byte("x"))
	if !reasoncodes.HasCode(err, reasoncodes.ErrStorageFailed) {
		t.Errorf("Expected StorageFailed, got %v", err)
	}
}

func TestArciumEncryptorOutputShape(t *testing.T) {
	encryptor := NewArciumEncryptor()

	ciphertext, proof, err := encryptor.Encrypt(context.Background(), []byte("hello"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		t.Fatalf("Ciphertext is not base64: %v", err)
	}
	if string(decoded) != "hello" {
		t.Errorf("Stand-in ciphertext should decode to the plaintext, got %q", decoded)
	}
	if !strings.HasPrefix(proof, "zk_proof_") {
		t.Errorf("Proof missing tag: %q", proof)
	}
}

func TestWalrusStoreRoundTrip(t *testing.T) {
	store, err := NewWalrusStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewWalrusStore failed: %v", err)
	}

	cid, err := store.Store(context.Background(), []byte("ciphertext"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if !strings.HasPrefix(cid, "walrus_") {
		t.Errorf("Content id missing prefix: %q", cid)
	}

	data, err := store.Retrieve(context.Background(), cid)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if string(data) != "ciphertext" {
		t.Errorf("Blob mismatch: %q", data)
	}

	if _, err := store.Retrieve(context.Background(), "walrus_missing"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Expected ErrObjectNotFound, got %v", err)
	}
}

func TestPointerRoundTrip(t *testing.T) {
	pointer := PointerFor("walrus_abc")
	if pointer != "walrus://walrus_abc" {
		t.Errorf("Pointer mismatch: %q", pointer)
	}

	cid, err := CidFromPointer(pointer)
	if err != nil {
		t.Fatalf("CidFromPointer failed: %v", err)
	}
	if cid != "walrus_abc" {
		t.Errorf("Cid mismatch: %q", cid)
	}

	if _, err := CidFromPointer("ipfs://whatever"); err == nil {
		t.Error("Foreign scheme accepted")
	}
}
