package auth

import (
	"strings"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

// RoleResolver derives a role from the institution domain of an email address.
type RoleResolver struct {
	domain string
}

func NewRoleResolver(institutionDomain string) RoleResolver {
	return RoleResolver{domain: institutionDomain}
}

// Resolve matches suffixes exactly, student addresses first. No case folding.
func (r RoleResolver) Resolve(email string) models.UserRole {
	switch {
	case strings.HasSuffix(email, "@student."+r.domain):
		return models.RoleMahasiswa
	case strings.HasSuffix(email, "@"+r.domain):
		return models.RoleDosen
	default:
		return models.RoleTamu
	}
}
