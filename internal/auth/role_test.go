package auth

import (
	"testing"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

func TestRoleResolver_Resolve(t *testing.T) {
	resolver := NewRoleResolver("itera.ac.id")

	tests := []struct {
		email string
		want  models.UserRole
	}{
		{email: "alice@student.itera.ac.id", want: models.RoleMahasiswa},
		{email: "budi@itera.ac.id", want: models.RoleDosen},
		{email: "tamu@gmail.com", want: models.RoleTamu},
		{email: "x@other.com", want: models.RoleTamu},
		{email: "mallory@notitera.ac.id", want: models.RoleTamu},
		{email: "upper@STUDENT.ITERA.AC.ID", want: models.RoleTamu},
		{email: "", want: models.RoleTamu},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := resolver.Resolve(tt.email); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.email, got, tt.want)
			}
			if again := resolver.Resolve(tt.email); again != resolver.Resolve(tt.email) {
				t.Errorf("Resolve(%q) is not deterministic", tt.email)
			}
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("rahasia")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "rahasia" {
		t.Fatal("Hash() returned the plain password")
	}
	if !hasher.Verify(hash, "rahasia") {
		t.Error("Verify() rejected the right password")
	}
	if hasher.Verify(hash, "salah") {
		t.Error("Verify() accepted a wrong password")
	}
}
