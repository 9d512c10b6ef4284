package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/veermshah/congruency/internal/esign"
	"github.com/veermshah/congruency/internal/model"
)

type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) Generate(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *MockContractService) SaveGenerated(ctx context.Context, ownerID uuid.UUID, content, fileName string) (*model.StoredFile, error) {
	args := m.Called(ctx, ownerID, content, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockContractService) Upload(ctx context.Context, ownerID uuid.UUID, r io.Reader, originalFilename, contentType string, size int64) (*model.StoredFile, error) {
	args := m.Called(ctx, ownerID, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockContractService) List(ctx context.Context, ownerID uuid.UUID, search string) ([]model.StoredFile, error) {
	args := m.Called(ctx, ownerID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredFile), args.Error(1)
}

func (m *MockContractService) Download(ctx context.Context, ownerID uuid.UUID, name string) (io.ReadCloser, *model.StoredFile, error) {
	args := m.Called(ctx, ownerID, name)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var info *model.StoredFile
	if args.Get(1) != nil {
		info = args.Get(1).(*model.StoredFile)
	}
	return rc, info, args.Error(2)
}

func (m *MockContractService) Delete(ctx context.Context, ownerID uuid.UUID, name string) ([]model.StoredFile, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredFile), args.Error(1)
}

func (m *MockContractService) ShareLink(ctx context.Context, ownerID uuid.UUID, name string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, ownerID, name, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockContractService) RequestSignature(ctx context.Context, ownerID uuid.UUID, name string, signer esign.Signer) (string, error) {
	args := m.Called(ctx, ownerID, name, signer)
	return args.String(0), args.Error(1)
}
