package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// TenantClaims is the payload carried by a tenant-scope token. The token does
// not identify a user; it scopes a request to one tenant's data.
type TenantClaims struct {
	TenantID uuid.UUID `json:"tenant_id"`
	jwt.RegisteredClaims
}

// MintTenantToken issues a signed tenant-scope JWT using the configured TTL.
func MintTenantToken(cfg config.JWTConfig, now time.Time, tenantID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	if tenantID == uuid.Nil {
		return "", fmt.Errorf("tenant id is required")
	}

	claims := TenantClaims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseTenantToken validates the JWT string and returns typed claims.
func ParseTenantToken(cfg config.JWTConfig, tokenString string) (*TenantClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &TenantClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	if claims.TenantID == uuid.Nil {
		return nil, fmt.Errorf("token missing tenant id")
	}

	return claims, nil
}
