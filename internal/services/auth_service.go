package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
	"github.com/boboboiiiw/backend-edutrack/internal/validator"
)

const minPasswordLength = 6

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenService
	roles     auth.RoleResolver
	hasher    auth.PasswordHasher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenService, roles auth.RoleResolver, hasher auth.PasswordHasher, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		roles:     roles,
		hasher:    hasher,
		logger:    logger,
		validator: validator,
	}
}

// ===== REGISTRATION & LOGIN =====

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, registerValidationError(err)
	}

	role := s.roles.Resolve(req.Email)
	if role == models.RoleTamu {
		return nil, NewValidationError("Domain email tidak diizinkan.")
	}

	s.logger.Info("Registering user", "email", req.Email, "role", role)

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, NewConflictError("Email sudah terdaftar.", nil)
	}

	user := &models.User{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Role:  role,
	}

	if role == models.RoleMahasiswa {
		user.Prodi = trimmedOrNil(req.Prodi)
		if req.NIM != nil && *req.NIM != "" {
			nim := strings.TrimSpace(*req.NIM)
			if nim == "" {
				return nil, NewValidationError("NIM tidak valid.")
			}
			taken, err := s.repo.User().ExistsByNIM(ctx, nim, 0)
			if err != nil {
				return nil, fmt.Errorf("failed to check nim: %w", err)
			}
			if taken {
				return nil, NewConflictError("NIM sudah terdaftar.", nil)
			}
			user.NIM = &nim
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			s.logger.Warn("Registration conflict", "email", req.Email, "error", err)
			return nil, NewConflictError("Email atau NIM sudah terdaftar.", err)
		}
		s.logger.Error("Failed to register user", "email", req.Email, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", role)

	return &RegisterResponse{Message: "Registrasi berhasil", Role: role}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("Email dan password wajib diisi.")
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Info("Login rejected", "email", req.Email, "reason", "unknown email")
			return nil, NewUnauthorizedError("Email atau password salah.")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !s.hasher.Verify(user.Password, req.Password) {
		s.logger.Info("Login rejected", "email", req.Email, "reason", "wrong password")
		return nil, NewUnauthorizedError("Email atau password salah.")
	}

	token, err := s.tokens.Issue(auth.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &LoginResponse{
		Message: "Login berhasil",
		Token:   token,
		User:    models.NewUserProfile(user),
	}, nil
}

// ===== PROFILE =====

func (s *authService) GetProfile(ctx context.Context, caller auth.Identity) (*models.UserProfile, error) {
	if caller.ID == 0 {
		return nil, NewUnauthorizedError("Autentikasi diperlukan untuk melihat profil.")
	}

	user, err := s.repo.User().GetByID(ctx, caller.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("Profil pengguna tidak ditemukan.")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile := models.NewUserProfile(user)
	return &profile, nil
}

func (s *authService) UpdateProfile(ctx context.Context, caller auth.Identity, payload map[string]any) (*models.UserProfile, error) {
	if caller.ID == 0 {
		return nil, NewUnauthorizedError("Autentikasi diperlukan untuk memperbarui profil.")
	}

	user, err := s.repo.User().GetByID(ctx, caller.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("Pengguna tidak ditemukan.")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	changes, err := GuardProfileUpdate(payload, user.Role)
	if err != nil {
		s.logger.Info("Profile update rejected", "user_id", user.ID, "reason", UserMessage(err, err.Error()))
		return nil, err
	}

	if changes.SetNIM && changes.NIM != nil {
		taken, err := s.repo.User().ExistsByNIM(ctx, *changes.NIM, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check nim: %w", err)
		}
		if taken {
			return nil, NewConflictError("NIM sudah terdaftar.", nil)
		}
	}

	changes.Apply(user)
	if err := s.repo.User().UpdateProfile(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("NIM sudah terdaftar.", err)
		}
		s.logger.Error("Failed to update profile", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", user.ID)

	profile := models.NewUserProfile(user)
	return &profile, nil
}

// ChangePassword replaces the stored hash. Tokens issued before the change
// stay valid until they expire.
func (s *authService) ChangePassword(ctx context.Context, caller auth.Identity, req *ChangePasswordRequest) error {
	if caller.ID == 0 {
		return NewUnauthorizedError("Autentikasi diperlukan untuk mengubah password.")
	}

	user, err := s.repo.User().GetByID(ctx, caller.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("Pengguna tidak ditemukan.")
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.validator.Validate(req); err != nil {
		return NewValidationError("Password lama dan password baru wajib diisi.")
	}
	if !s.hasher.Verify(user.Password, req.OldPassword) {
		return NewUnauthorizedError("Password lama salah.")
	}
	if len(req.NewPassword) < minPasswordLength {
		return NewValidationError("Password baru minimal 6 karakter.")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.User().UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Error("Failed to change password", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", "user_id", user.ID)
	return nil
}

func registerValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError("Field tidak lengkap.")
	}
	for _, ve := range verrs {
		if ve.Rule == "required" || ve.Rule == "notblank" {
			return NewValidationError("Field tidak lengkap.")
		}
	}
	if verrs.HasField("Email") {
		return NewValidationError("Format email tidak valid.")
	}
	return NewValidationError("Data registrasi tidak valid.")
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
