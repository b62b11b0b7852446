package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/pkg/config"
)

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "qrbatch-test",
		ExpirationMinutes: 5,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	tenantID := uuid.New()

	signed, err := MintTenantToken(jwtConfig(), time.Now(), tenantID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseTenantToken(jwtConfig(), signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.TenantID != tenantID {
		t.Fatalf("expected tenant %s got %s", tenantID, claims.TenantID)
	}
}

func TestMintRejectsNilTenant(t *testing.T) {
	if _, err := MintTenantToken(jwtConfig(), time.Now(), uuid.Nil); err == nil {
		t.Fatal("expected error for nil tenant id")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signed, err := MintTenantToken(jwtConfig(), time.Now().Add(-time.Hour), uuid.New())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseTenantToken(jwtConfig(), signed); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	otherIssuer := jwtConfig()
	otherIssuer.Issuer = "someone-else"

	signed, err := MintTenantToken(otherIssuer, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseTenantToken(jwtConfig(), signed); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}
