package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PointerScheme prefixes a content id to make a record pointer.
const PointerScheme = "walrus://"

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the off-chain storage boundary: ciphertext in, content id
// out. Content ids are opaque; the ledger only ever stores the pointer form.
type ObjectStore interface {
	Store(ctx context.Context, data []byte) (cid string, err error)
	Retrieve(ctx context.Context, cid string) ([]byte, error)
}

func PointerFor(cid string) string {
	return PointerScheme + cid
}

func CidFromPointer(pointer string) (string, error) {
	if !strings.HasPrefix(pointer, PointerScheme) {
		return "", fmt.Errorf("not a %s pointer: %s", PointerScheme, pointer)
	}
	return strings.TrimPrefix(pointer, PointerScheme), nil
}

// WalrusStore is the stand-in for the Walrus network, keeping blobs on the
// local filesystem keyed by generated content ids.
type WalrusStore struct {
	basePath string
}

func NewWalrusStore(basePath string) (*WalrusStore, error) {
	if basePath == "" {
		basePath = "./data/walrus"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	return &WalrusStore{basePath: basePath}, nil
}

func (ws *WalrusStore) Store(_ context.Context, data []byte) (string, error) {
	cid := fmt.Sprintf("walrus_%d_%s", time.Now().UnixMilli(), shortID())

	filePath := filepath.Join(ws.basePath, cid)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return cid, nil
}

func (ws *WalrusStore) Retrieve(_ context.Context, cid string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(ws.basePath, cid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}
