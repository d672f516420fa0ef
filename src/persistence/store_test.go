package persistence

import "testing"

func testStoreBehavior(t *testing.T, store Store) {
	t.Helper()

	if _, ok, err := store.Get(IdentityAddressKey); err != nil || ok {
		t.Fatalf("Fresh store should miss cleanly, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(IdentityAddressKey, "addr1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(IdentityAddressKey, "addr2"); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	value, ok, err := store.Get(IdentityAddressKey)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != "addr2" {
		t.Errorf("Last write must win, got %q", value)
	}

	if err := store.Remove(IdentityAddressKey); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := store.Get(IdentityAddressKey); ok {
		t.Error("Removed key still present")
	}

	// Removing an absent key is a no-op, not an error.
	if err := store.Remove("never_set"); err != nil {
		t.Errorf("Remove of absent key failed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreBehavior(t, NewMemoryStore())
}

func TestPebbleStore(t *testing.T) {
	store, err := NewPebbleStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewPebbleStore failed: %v", err)
	}
	defer store.Close()

	testStoreBehavior(t, store)
}

func TestPebbleStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPebbleStore(dir)
	if err != nil {
		t.Fatalf("NewPebbleStore failed: %v", err)
	}
	if err := store.Set(IdentityAddressKey, "addr"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(IdentitySignatureKey, "sig"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewPebbleStore(dir)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	cache, err := LoadIdentityCache(reopened)
	if err != nil {
		t.Fatalf("LoadIdentityCache failed: %v", err)
	}
	if cache.Address != "addr" || cache.Signature != "sig" {
		t.Errorf("Cache lost across reopen: %+v", cache)
	}
}

func TestClearIdentityCache(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set(IdentityAddressKey, "addr"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(IdentitySignatureKey, "sig"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := ClearIdentityCache(store); err != nil {
		t.Fatalf("ClearIdentityCache failed: %v", err)
	}

	cache, err := LoadIdentityCache(store)
	if err != nil {
		t.Fatalf("LoadIdentityCache failed: %v", err)
	}
	if cache.Address != "" || cache.Signature != "" {
		t.Errorf("Cache not cleared: %+v", cache)
	}
}
