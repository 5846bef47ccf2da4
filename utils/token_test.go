package utils_test

import (
	"testing"

	"github.com/colmadosys/colmado_backend/utils"
)

func TestJwtRoundTrip(t *testing.T) {
	token, err := utils.JwtGenerate(7, "Maria", "vendedor")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := utils.JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token is not valid")
	}

	claim, ok := parsed.Claims.(*utils.JwtCustomClaim)
	if !ok {
		t.Fatalf("claims type = %T", parsed.Claims)
	}
	if claim.ID != 7 || claim.Name != "Maria" || claim.Role != "vendedor" {
		t.Fatalf("claims = %+v", claim)
	}
}

func TestJwtValidateRejectsGarbage(t *testing.T) {
	if _, err := utils.JwtValidate("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestNormalizeName(t *testing.T) {
	if got := utils.NormalizeName("  Arroz Blanco "); got != "Arroz Blanco" {
		t.Fatalf("NormalizeName = %q", got)
	}
	if got := utils.NormalizeName("   "); got != "" {
		t.Fatalf("NormalizeName = %q, want empty", got)
	}
}

func TestBcryptRoundTrip(t *testing.T) {
	hashed, err := utils.HashPassword("secreto123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := utils.ComparePassword(string(hashed), "secreto123"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := utils.ComparePassword(string(hashed), "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
