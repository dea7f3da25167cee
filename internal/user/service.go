package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/turfbook/turf-booking-backend/internal/auth"
)

// Service defines business logic related to users and walk-in guests.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// FindOrCreateGuest resolves a walk-in identity by phone number,
	// creating a lightweight guest record if none exists yet.
	FindOrCreateGuest(ctx context.Context, name, phone string) (*User, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}

	if len(password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Name:         strings.TrimSpace(name),
		Email:        &cleanEmail,
		PasswordHash: &hash,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	// Guests have no password and can never log in.
	if u.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(*u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) FindOrCreateGuest(ctx context.Context, name, phone string) (*User, error) {
	cleanPhone := strings.TrimSpace(phone)
	if cleanPhone == "" {
		return nil, ErrPhoneRequired
	}

	u, err := s.repo.GetByPhone(ctx, cleanPhone)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch user by phone: %w", err)
	}

	guest := &User{
		Name:    strings.TrimSpace(name),
		Phone:   &cleanPhone,
		IsGuest: true,
	}

	if err := s.repo.Create(ctx, guest); err != nil {
		// A concurrent request may have created the same guest; re-read by phone.
		if errors.Is(err, ErrPhoneAlreadyUsed) {
			return s.repo.GetByPhone(ctx, cleanPhone)
		}
		return nil, fmt.Errorf("failed to create guest user: %w", err)
	}

	return guest, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
