package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/application/interfaces"
	"github.com/KretovDmitry/order-workflow/internal/config"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
	"github.com/KretovDmitry/order-workflow/internal/domain/repositories"
	"github.com/KretovDmitry/order-workflow/internal/jwt"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	repo   repositories.StaffRepository
	logger logger.Logger
	config *config.Config
}

func NewAuthService(
	repo repositories.StaffRepository, logger logger.Logger, config *config.Config,
) (*AuthService, error) {
	if repo == nil {
		return nil, errors.New("nil dependency: staff repository")
	}
	if config == nil {
		return nil, errors.New("nil dependency: config")
	}
	return &AuthService{repo: repo, logger: logger, config: config}, nil
}

var _ interfaces.AuthService = (*AuthService)(nil)

// Register new staff member of the department.
func (s *AuthService) Register(
	ctx context.Context, login, password string, dept entities.Department,
) (*staff.Staff, error) {
	if !dept.IsValid() {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownDepartment, dept)
	}

	// Create password hash.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateStaff(ctx, login, string(hash), dept)
	if err != nil {
		if errors.Is(err, errs.ErrDataConflict) {
			return nil, fmt.Errorf("%w: login %q already exists", err, login)
		}
		return nil, fmt.Errorf("create staff: %w", err)
	}

	return &staff.Staff{ID: id, Login: login, Department: dept}, nil
}

// Login checks staff credentials.
func (s *AuthService) Login(ctx context.Context, login, password string) (*staff.Staff, error) {
	// Retrieve staff member with provided login.
	member, err := s.repo.GetStaffByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff with login %q not found",
				errs.ErrInvalidCredentials, login)
		}
		return nil, fmt.Errorf("get staff %q: %w", login, err)
	}

	// Compare stored and provided passwords.
	err = bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, fmt.Errorf("%w: password", errs.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("compare passwords: %w", err)
	}

	return member, nil
}

// BuildAuthToken builds a signed token for the staff member.
func (s *AuthService) BuildAuthToken(member *staff.Staff) (string, error) {
	return jwt.BuildString(member, s.config.JWT.SigningKey, s.config.JWT.Expiration)
}

// GetStaffFromToken validates the token and loads its staff member.
// A token issued before a department change is rejected.
func (s *AuthService) GetStaffFromToken(ctx context.Context, token string) (*staff.Staff, error) {
	claims, err := jwt.GetClaims(token, s.config.JWT.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCredentials, err)
	}

	member, err := s.repo.GetStaffByID(ctx, staff.ID(claims.StaffID))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff %d not found", errs.ErrInvalidCredentials, claims.StaffID)
		}
		return nil, fmt.Errorf("get staff %d: %w", claims.StaffID, err)
	}

	if member.Department != claims.Department {
		return nil, fmt.Errorf("%w: department changed", errs.ErrInvalidCredentials)
	}

	return member, nil
}
