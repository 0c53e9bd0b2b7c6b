package operators_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass-service/internal/operators"
	"gatepass-service/pkg/auth"
)

// memStore is an in-memory operators.Store keyed by email.
type memStore struct {
	byEmail map[string]*operators.Operator
	hashes  map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		byEmail: make(map[string]*operators.Operator),
		hashes:  make(map[string]string),
	}
}

func (m *memStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memStore) Insert(_ context.Context, op *operators.Operator, hash string) error {
	cp := *op
	m.byEmail[op.Email] = &cp
	m.hashes[op.Email] = hash
	return nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*operators.Operator, string, error) {
	op, ok := m.byEmail[email]
	if !ok {
		return nil, "", operators.ErrNotFound
	}
	cp := *op
	return &cp, m.hashes[email], nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*operators.Operator, error) {
	for _, op := range m.byEmail {
		if op.ID == id {
			cp := *op
			return &cp, nil
		}
	}
	return nil, operators.ErrNotFound
}

var _ operators.Store = (*memStore)(nil)

func newService(t *testing.T) (*operators.Service, *auth.Auth) {
	t.Helper()
	a, err := auth.New([]byte("session-test-secret"), time.Hour)
	require.NoError(t, err)
	return operators.NewService(newMemStore(), a), a
}

func registration() operators.RegisterRequest {
	return operators.RegisterRequest{
		Name:     "Nexus Logistics",
		Email:    "ops@nexus.example",
		Phone:    "+914412345678",
		Password: "s3cret-pass",
	}
}

func TestRegister_ReturnsValidSession(t *testing.T) {
	svc, a := newService(t)

	resp, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)
	require.NotNil(t, resp.Operator)
	assert.NotEmpty(t, resp.Operator.ID)

	claims, err := a.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Operator.ID, claims.OperatorID)
	assert.Equal(t, "ops@nexus.example", claims.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registration())
	assert.ErrorIs(t, err, operators.ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t)

	bad := registration()
	bad.Email = "not-an-email"
	_, err := svc.Register(context.Background(), bad)
	assert.ErrorIs(t, err, operators.ErrBadInput)

	bad = registration()
	bad.Password = "ab"
	_, err = svc.Register(context.Background(), bad)
	assert.ErrorIs(t, err, operators.ErrBadInput)

	bad = registration()
	bad.Name = " "
	_, err = svc.Register(context.Background(), bad)
	assert.ErrorIs(t, err, operators.ErrBadInput)
}

func TestLogin(t *testing.T) {
	svc, a := newService(t)

	reg, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), operators.LoginRequest{
		Email:    "ops@nexus.example",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	claims, err := a.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Operator.ID, claims.OperatorID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), operators.LoginRequest{
		Email:    "ops@nexus.example",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, operators.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Login(context.Background(), operators.LoginRequest{
		Email:    "nobody@nexus.example",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, operators.ErrInvalidCredentials)
}
