package auth

import (
	"errors"
	"strings"
	"testing"
)

// Known SHA-512 vectors for the digest chain.
const (
	aliceSalt = "408b27d3097eea5a46bf2ab6433a7234a33d5e49957b13ec7acc2ca08e1a13c75272c90c8d3385d47ede5420a7a9623aad817d9f8a70bd100a0acea7400daa59"
	alicePass = "7cfc1a7c8c9bab5c99b2985241da8840e53f1088ac2614014b72771162d321fc12ada624f2a57124961e90267c23e2f546334b9978d63467b874ee622caa9e8f"
)

func TestSaltKnownVector(t *testing.T) {
	h := NewHasher(nil)
	salt, err := h.Salt("alice")
	if err != nil {
		t.Fatalf("Salt() error = %v", err)
	}
	if salt != aliceSalt {
		t.Errorf("Salt(alice) = %s, want %s", salt, aliceSalt)
	}
}

func TestPasshashKnownVector(t *testing.T) {
	h := NewHasher(nil)
	hash, err := h.Passhash("alice", "secret1")
	if err != nil {
		t.Fatalf("Passhash() error = %v", err)
	}
	if hash != alicePass {
		t.Errorf("Passhash(alice, secret1) = %s, want %s", hash, alicePass)
	}
}

func TestPasshashDeterministic(t *testing.T) {
	h := NewHasher(nil)
	first, err := h.Passhash("bob", "hunter22")
	if err != nil {
		t.Fatalf("Passhash() error = %v", err)
	}
	second, err := h.Passhash("bob", "hunter22")
	if err != nil {
		t.Fatalf("Passhash() error = %v", err)
	}
	if first != second {
		t.Errorf("identical inputs produced different hashes: %s vs %s", first, second)
	}
}

func TestPasshashDistinctPairs(t *testing.T) {
	h := NewHasher(nil)
	pairs := []struct{ name, password string }{
		{"alice", "secret1"},
		{"alice", "secret2"},
		{"bob", "secret1"},
		{"bob", "secret2"},
	}
	seen := map[string]string{}
	for _, p := range pairs {
		hash, err := h.Passhash(p.name, p.password)
		if err != nil {
			t.Fatalf("Passhash(%s, %s) error = %v", p.name, p.password, err)
		}
		if len(hash) != 128 {
			t.Errorf("Passhash(%s, %s) length = %d, want 128", p.name, p.password, len(hash))
		}
		if prev, dup := seen[hash]; dup {
			t.Errorf("hash collision between (%s) and (%s,%s)", prev, p.name, p.password)
		}
		seen[hash] = p.name + "," + p.password
	}
}

func TestVerify(t *testing.T) {
	h := NewHasher(nil)
	stored, err := h.Passhash("alice", "secret1")
	if err != nil {
		t.Fatalf("Passhash() error = %v", err)
	}

	ok, err := h.Verify(stored, "alice", "secret1")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("Verify with the correct password = false, want true")
	}

	ok, err = h.Verify(stored, "alice", "secret2")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ok {
		t.Error("Verify with the wrong password = true, want false")
	}
}

func TestDigestFailurePropagates(t *testing.T) {
	digestErr := errors.New("digest exploded")
	h := NewHasher(func([]byte) (string, error) { return "", digestErr })

	if _, err := h.Passhash("alice", "secret1"); !errors.Is(err, digestErr) {
		t.Errorf("Passhash() error = %v, want wrapped %v", err, digestErr)
	}
	if _, err := h.Verify("whatever", "alice", "secret1"); !errors.Is(err, digestErr) {
		t.Errorf("Verify() error = %v, want wrapped %v", err, digestErr)
	}
}

func TestMalformedDigestOutput(t *testing.T) {
	// A digest that "succeeds" with empty output must still fail; it must
	// never silently become an empty hash.
	h := NewHasher(func([]byte) (string, error) { return "", nil })
	_, err := h.Passhash("alice", "secret1")
	if err == nil {
		t.Fatal("Passhash() with empty digest output: error = nil, want error")
	}
	if !strings.Contains(err.Error(), "malformed") {
		t.Errorf("Passhash() error = %v, want malformed digest error", err)
	}
}
