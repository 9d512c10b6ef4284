package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veermshah/congruency/internal/completion"
	"github.com/veermshah/congruency/internal/esign"
	"github.com/veermshah/congruency/internal/model"
	"github.com/veermshah/congruency/internal/storage"
)

var (
	ErrNameRequired = model.NewError(model.KindValidation, "file name is required", nil)
	ErrNotFound     = errors.New("contract not found")
	ErrReaderNil    = errors.New("reader is nil")
)

// Renderer turns contract text into a single-page PDF.
type Renderer interface {
	Render(text string) ([]byte, error)
}

// ContractService defines the contract flows: generate text, export it as a
// stored PDF, and manage the caller's stored contracts. Every operation is
// scoped to the owner's prefix in the object store; the store is the source
// of truth for listings.
type ContractService interface {
	// Generate produces contract text for the prompt via the completion endpoint.
	Generate(ctx context.Context, message string) (string, error)

	// SaveGenerated renders the (possibly edited) text into a single-page PDF
	// and uploads it under the owner's prefix. An empty fileName yields a
	// timestamp-based name.
	SaveGenerated(ctx context.Context, ownerID uuid.UUID, content, fileName string) (*model.StoredFile, error)

	// Upload persists a caller-supplied file as-is under the owner's prefix,
	// prefixing the name with an upload timestamp.
	Upload(ctx context.Context, ownerID uuid.UUID, r io.Reader, originalFilename, contentType string, size int64) (*model.StoredFile, error)

	// List returns the owner's stored contracts, optionally filtered by a
	// case-insensitive substring match on the name.
	List(ctx context.Context, ownerID uuid.UUID, search string) ([]model.StoredFile, error)

	// Download streams a stored contract's bytes. The caller must close the reader.
	Download(ctx context.Context, ownerID uuid.UUID, name string) (io.ReadCloser, *model.StoredFile, error)

	// Delete removes a stored contract and returns the re-fetched listing.
	Delete(ctx context.Context, ownerID uuid.UUID, name string) ([]model.StoredFile, error)

	// ShareLink returns a time-limited presigned download URL for a stored
	// contract, usable without a session.
	ShareLink(ctx context.Context, ownerID uuid.UUID, name string, expiry time.Duration) (string, error)

	// RequestSignature creates a signing envelope from a stored contract and
	// returns the embedded-signing URL.
	RequestSignature(ctx context.Context, ownerID uuid.UUID, name string, signer esign.Signer) (string, error)
}

type contractService struct {
	store     storage.Storage
	llm       completion.Client
	renderer  Renderer
	signer    esign.Provider
	returnURL string
	now       func() time.Time
}

// NewContractService constructs a new ContractService.
func NewContractService(store storage.Storage, llm completion.Client, renderer Renderer, signer esign.Provider, returnURL string) ContractService {
	return &contractService{
		store:     store,
		llm:       llm,
		renderer:  renderer,
		signer:    signer,
		returnURL: returnURL,
		now:       time.Now,
	}
}

func (s *contractService) Generate(ctx context.Context, message string) (string, error) {
	return s.llm.Complete(ctx, message)
}

func (s *contractService) SaveGenerated(ctx context.Context, ownerID uuid.UUID, content, fileName string) (*model.StoredFile, error) {
	// Render first: empty content must fail before any storage call.
	pdf, err := s.renderer.Render(content)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(fileName)
	if name == "" {
		name = strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	key := ownerID.String() + "/" + name + ".pdf"

	info, err := s.store.Put(ctx, key, strings.NewReader(string(pdf)), storage.PutObjectOptions{
		Size:        int64(len(pdf)),
		ContentType: "application/pdf",
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	f := fileFromObject(ownerID, info)
	return &f, nil
}

func (s *contractService) Upload(ctx context.Context, ownerID uuid.UUID, r io.Reader, originalFilename, contentType string, size int64) (*model.StoredFile, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if strings.TrimSpace(originalFilename) == "" {
		return nil, ErrNameRequired
	}

	key := fmt.Sprintf("%s/%d-%s", ownerID, s.now().UnixMilli(), originalFilename)
	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	f := fileFromObject(ownerID, info)
	return &f, nil
}

// List fetches the owner's listing and applies the search filter to the
// already-fetched entries; there is no server-side search.
func (s *contractService) List(ctx context.Context, ownerID uuid.UUID, search string) ([]model.StoredFile, error) {
	objects, err := s.store.List(ctx, ownerID.String()+"/")
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}

	files := make([]model.StoredFile, 0, len(objects))
	needle := strings.ToLower(search)
	for _, obj := range objects {
		f := fileFromObject(ownerID, obj)
		if needle != "" && !strings.Contains(strings.ToLower(f.Name), needle) {
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

func (s *contractService) Download(ctx context.Context, ownerID uuid.UUID, name string) (io.ReadCloser, *model.StoredFile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil, ErrNameRequired
	}

	rc, info, err := s.store.Get(ctx, ownerID.String()+"/"+name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download from storage: %w", err)
	}
	f := fileFromObject(ownerID, info)
	return rc, &f, nil
}

// Delete removes the object and re-fetches the listing: the store's
// post-delete state is the source of truth, never an optimistic local removal.
func (s *contractService) Delete(ctx context.Context, ownerID uuid.UUID, name string) ([]model.StoredFile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	if err := s.store.Delete(ctx, ownerID.String()+"/"+name); err != nil {
		return nil, fmt.Errorf("delete from storage: %w", err)
	}
	return s.List(ctx, ownerID, "")
}

func (s *contractService) ShareLink(ctx context.Context, ownerID uuid.UUID, name string, expiry time.Duration) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrNameRequired
	}

	// Confirm the object exists under the owner's prefix before handing out
	// a URL, so missing names surface as 404 rather than a broken link.
	key := ownerID.String() + "/" + name
	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat object: %w", err)
	}
	rc.Close()

	u, err := s.store.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

func (s *contractService) RequestSignature(ctx context.Context, ownerID uuid.UUID, name string, signer esign.Signer) (string, error) {
	rc, _, err := s.Download(ctx, ownerID, name)
	if err != nil {
		return "", err
	}
	doc, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("read contract: %w", err)
	}

	env := esign.Envelope{
		Document:     doc,
		DocumentName: name,
		Signer:       signer,
		ReturnURL:    s.returnURL,
	}
	envelopeID, err := s.signer.CreateEnvelope(ctx, env)
	if err != nil {
		return "", fmt.Errorf("create envelope: %w", err)
	}
	u, err := s.signer.SigningURL(ctx, envelopeID, env)
	if err != nil {
		return "", fmt.Errorf("signing url: %w", err)
	}
	return u, nil
}

// fileFromObject maps a storage object to the listing model, trimming the
// owner prefix from the key. The store reports a single modification time;
// it stands in for both creation and last access.
func fileFromObject(ownerID uuid.UUID, obj storage.ObjectInfo) model.StoredFile {
	return model.StoredFile{
		Name:           strings.TrimPrefix(obj.Key, ownerID.String()+"/"),
		ID:             obj.ETag,
		Size:           obj.Size,
		ContentType:    obj.ContentType,
		CreatedAt:      obj.LastModified,
		LastAccessedAt: obj.LastModified,
	}
}
