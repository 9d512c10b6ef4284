package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/veermshah/congruency/internal/esign"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateEnvelope(ctx context.Context, env esign.Envelope) (string, error) {
	args := m.Called(ctx, env)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) SigningURL(ctx context.Context, envelopeID string, env esign.Envelope) (string, error) {
	args := m.Called(ctx, envelopeID, env)
	return args.String(0), args.Error(1)
}
