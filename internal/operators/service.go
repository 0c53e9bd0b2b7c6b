package operators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gatepass-service/pkg/auth"
	"gatepass-service/pkg/validation"
)

// Sentinel errors for handler status mapping.
var (
	ErrBadInput           = errors.New("bad input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("operator not found")
)

// Service contains operator account logic.
type Service struct {
	store Store
	auth  *auth.Auth
}

// NewService creates an operator service.
func NewService(store Store, a *auth.Auth) *Service {
	return &Service{store: store, auth: a}
}

// Register creates a new operator account and returns a session token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if !validation.ValidateName(req.Name) {
		return nil, fmt.Errorf("%w: name is required", ErrBadInput)
	}
	if !validation.ValidateEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email", ErrBadInput)
	}
	if req.Phone != "" && !validation.ValidatePhone(req.Phone) {
		return nil, fmt.Errorf("%w: invalid phone", ErrBadInput)
	}
	if !validation.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("%w: password must be 6-100 characters", ErrBadInput)
	}

	exists, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	op := &Operator{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}
	if err := s.store.Insert(ctx, op, string(hash)); err != nil {
		return nil, err
	}

	token, err := s.auth.Generate(op.ID, op.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Operator: op}, nil
}

// Login authenticates an operator and returns a session token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	op, hash, err := s.store.FindByEmail(ctx, req.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.Generate(op.ID, op.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Operator: op}, nil
}

// GetByID fetches a single operator by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Operator, error) {
	return s.store.FindByID(ctx, id)
}
