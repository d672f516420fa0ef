package persistence

// Keys cached across restarts. Absence of the address key means "no identity
// yet".
const (
	IdentityAddressKey   = "identity_address"
	IdentitySignatureKey = "identity_signature"
)

// Store is a small process-local key-value cache. Last writer wins; it is
// single-user, single-device cached state, never a source of truth; the
// ledger owns the authoritative records.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// IdentityCache is the startup snapshot of the persisted identity keys.
type IdentityCache struct {
	Address   string
	Signature string
}

func LoadIdentityCache(store Store) (IdentityCache, error) {
	var cache IdentityCache

	address, ok, err := store.Get(IdentityAddressKey)
	if err != nil {
		return IdentityCache{}, err
	}
	if ok {
		cache.Address = address
	}

	signature, ok, err := store.Get(IdentitySignatureKey)
	if err != nil {
		return IdentityCache{}, err
	}
	if ok {
		cache.Signature = signature
	}

	return cache, nil
}

// ClearIdentityCache removes the cached identity keys, used on explicit
// reset or when a cached value no longer parses.
func ClearIdentityCache(store Store) error {
	if err := store.Remove(IdentityAddressKey); err != nil {
		return err
	}
	return store.Remove(IdentitySignatureKey)
}
