package security

import (
	"strings"
	"testing"

	"github.com/veritrace/qrbatch-backend/pkg/config"
)

func testConfig() config.APIKeyConfig {
	return config.APIKeyConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := HashAPIKey("sk_live_abc123", testConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := VerifyAPIKey("sk_live_abc123", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected key to verify")
	}

	ok, err = VerifyAPIKey("sk_live_wrong", hash)
	if err != nil {
		t.Fatalf("verify wrong key: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched key to fail")
	}
}

func TestHashEmptyKeyRejected(t *testing.T) {
	if _, err := HashAPIKey("", testConfig()); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if _, err := VerifyAPIKey("key", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
