package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "threadhaus",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()
	sellerID := uuid.New()

	payload := AccessTokenPayload{
		UserID:   userID,
		SellerID: &sellerID,
		Role:     enums.UserRoleSeller,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.SellerID == nil || *claims.SellerID != sellerID {
		t.Fatalf("seller id not preserved")
	}
	if claims.Role != enums.UserRoleSeller {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp.UTC(), claims.ExpiresAt.UTC())
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestMintAccessTokenRejectsBadInputs(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "threadhaus", ExpirationMinutes: 30}
	now := time.Now()

	if _, err := MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, now, AccessTokenPayload{Role: enums.UserRoleShopper}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: "bogus"}); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "threadhaus", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleShopper})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}
