package services

import (
	"testing"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

func TestGuardProfileUpdate(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		role     models.UserRole
		wantKind error
		wantMsg  string
		check    func(t *testing.T, c ProfileChanges)
	}{
		{
			name:     "role change rejected for dosen",
			payload:  map[string]any{"role": "Dosen"},
			role:     models.RoleDosen,
			wantKind: ErrForbidden,
			wantMsg:  "Perubahan role tidak diizinkan.",
		},
		{
			name:     "role change rejected for mahasiswa even with valid name",
			payload:  map[string]any{"role": "Dosen", "name": "Budi"},
			role:     models.RoleMahasiswa,
			wantKind: ErrForbidden,
			wantMsg:  "Perubahan role tidak diizinkan.",
		},
		{
			name:     "email change rejected",
			payload:  map[string]any{"email": "x@itera.ac.id"},
			role:     models.RoleMahasiswa,
			wantKind: ErrValidationFailed,
			wantMsg:  "Perubahan email/password tidak diizinkan melalui endpoint ini.",
		},
		{
			name:     "password change rejected",
			payload:  map[string]any{"password": "baru", "name": "Budi"},
			role:     models.RoleDosen,
			wantKind: ErrValidationFailed,
			wantMsg:  "Perubahan email/password tidak diizinkan melalui endpoint ini.",
		},
		{
			name:     "prodi from dosen",
			payload:  map[string]any{"prodi": "X"},
			role:     models.RoleDosen,
			wantKind: ErrForbidden,
			wantMsg:  "Hanya mahasiswa yang dapat mengubah informasi prodi atau NIM.",
		},
		{
			name:     "nim from tamu",
			payload:  map[string]any{"nim": "123"},
			role:     models.RoleTamu,
			wantKind: ErrForbidden,
		},
		{
			name:     "blank name",
			payload:  map[string]any{"name": "   "},
			role:     models.RoleMahasiswa,
			wantKind: ErrValidationFailed,
			wantMsg:  "Nama tidak boleh kosong.",
		},
		{
			name:     "non-string name",
			payload:  map[string]any{"name": 42.0},
			role:     models.RoleDosen,
			wantKind: ErrValidationFailed,
			wantMsg:  "Nama tidak boleh kosong.",
		},
		{
			name:     "whitespace nim",
			payload:  map[string]any{"nim": "  "},
			role:     models.RoleMahasiswa,
			wantKind: ErrValidationFailed,
			wantMsg:  "NIM tidak valid.",
		},
		{
			name:     "nothing to update",
			payload:  map[string]any{"foo": "bar"},
			role:     models.RoleMahasiswa,
			wantKind: ErrValidationFailed,
			wantMsg:  "Tidak ada field yang valid untuk diperbarui.",
		},
		{
			name:    "name trimmed",
			payload: map[string]any{"name": "  Budi  "},
			role:    models.RoleDosen,
			check: func(t *testing.T, c ProfileChanges) {
				if c.Name == nil || *c.Name != "Budi" {
					t.Errorf("name = %v, want Budi", c.Name)
				}
				if c.SetProdi || c.SetNIM {
					t.Error("academic fields staged for dosen")
				}
			},
		},
		{
			name:    "blank prodi clears it",
			payload: map[string]any{"prodi": " "},
			role:    models.RoleMahasiswa,
			check: func(t *testing.T, c ProfileChanges) {
				if !c.SetProdi || c.Prodi != nil {
					t.Errorf("prodi staged = %v value = %v, want cleared", c.SetProdi, c.Prodi)
				}
			},
		},
		{
			name:    "empty nim clears it",
			payload: map[string]any{"nim": ""},
			role:    models.RoleMahasiswa,
			check: func(t *testing.T, c ProfileChanges) {
				if !c.SetNIM || c.NIM != nil {
					t.Errorf("nim staged = %v value = %v, want cleared", c.SetNIM, c.NIM)
				}
			},
		},
		{
			name:    "mahasiswa academic fields",
			payload: map[string]any{"prodi": " Informatika ", "nim": " 120140001 "},
			role:    models.RoleMahasiswa,
			check: func(t *testing.T, c ProfileChanges) {
				if c.Prodi == nil || *c.Prodi != "Informatika" {
					t.Errorf("prodi = %v", c.Prodi)
				}
				if c.NIM == nil || *c.NIM != "120140001" {
					t.Errorf("nim = %v", c.NIM)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GuardProfileUpdate(tt.payload, tt.role)
			if tt.wantKind != nil {
				assertKind(t, err, tt.wantKind, tt.wantMsg)
				return
			}
			if err != nil {
				t.Fatalf("GuardProfileUpdate() error = %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestProfileChanges_Apply(t *testing.T) {
	prodi := "Informatika"
	user := &models.User{Name: "Lama", Prodi: &prodi}
	name := "Baru"

	ProfileChanges{Name: &name, SetProdi: true}.Apply(user)

	if user.Name != "Baru" {
		t.Errorf("name = %s", user.Name)
	}
	if user.Prodi != nil {
		t.Errorf("prodi = %v, want nil", *user.Prodi)
	}
}
