package services

import (
	"strings"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

// ProfileChanges is what the profile guard staged for update. A nil pointer
// means the field is left untouched; Set* with a nil value clears it.
type ProfileChanges struct {
	Name     *string
	SetProdi bool
	Prodi    *string
	SetNIM   bool
	NIM      *string
}

func (c ProfileChanges) Empty() bool {
	return c.Name == nil && !c.SetProdi && !c.SetNIM
}

// Apply copies the staged fields onto user.
func (c ProfileChanges) Apply(user *models.User) {
	if c.Name != nil {
		user.Name = *c.Name
	}
	if c.SetProdi {
		user.Prodi = c.Prodi
	}
	if c.SetNIM {
		user.NIM = c.NIM
	}
}

// GuardProfileUpdate decides which keys of a PATCH /api/me payload may be
// applied by a caller with role. NIM uniqueness needs storage and is checked
// by the caller afterwards.
func GuardProfileUpdate(payload map[string]any, role models.UserRole) (ProfileChanges, error) {
	var changes ProfileChanges

	if _, ok := payload["role"]; ok {
		return changes, NewForbiddenError("Perubahan role tidak diizinkan.")
	}
	if hasAny(payload, "email", "password") {
		return changes, NewValidationError("Perubahan email/password tidak diizinkan melalui endpoint ini.")
	}
	if role != models.RoleMahasiswa && hasAny(payload, "prodi", "nim") {
		return changes, NewForbiddenError("Hanya mahasiswa yang dapat mengubah informasi prodi atau NIM.")
	}

	if raw, ok := payload["name"]; ok {
		name, isString := raw.(string)
		name = strings.TrimSpace(name)
		if !isString || name == "" {
			return changes, NewValidationError("Nama tidak boleh kosong.")
		}
		changes.Name = &name
	}

	if raw, ok := payload["prodi"]; ok {
		changes.SetProdi = true
		if prodi, isString := raw.(string); isString && strings.TrimSpace(prodi) != "" {
			prodi = strings.TrimSpace(prodi)
			changes.Prodi = &prodi
		}
	}

	if raw, ok := payload["nim"]; ok {
		changes.SetNIM = true
		if !isEmptyValue(raw) {
			nim, isString := raw.(string)
			nim = strings.TrimSpace(nim)
			if !isString || nim == "" {
				return ProfileChanges{}, NewValidationError("NIM tidak valid.")
			}
			changes.NIM = &nim
		}
	}

	if changes.Empty() {
		return changes, NewValidationError("Tidak ada field yang valid untuk diperbarui.")
	}
	return changes, nil
}

func hasAny(payload map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := payload[k]; ok {
			return true
		}
	}
	return false
}

// isEmptyValue reports whether a JSON value is null, false, zero or "".
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	default:
		return false
	}
}
