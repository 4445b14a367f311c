package services

import (
	"context"
	"errors"
	"io"

	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/services/storage"
	"gorm.io/gorm"
)

// ErrStorageMissing is returned when a note's database record exists but its
// stored file is gone
var ErrStorageMissing = errors.New("stored document is missing")

// DeliveryResult carries an authorized note and its opened content stream.
// The caller owns Content and must ensure it is closed.
type DeliveryResult struct {
	Note    *model.Note
	Content io.ReadCloser
	Size    int64
}

// DeliveryService streams stored documents to authorized users
type DeliveryService struct {
	db      *gorm.DB
	access  *AccessService
	backend storage.Backend
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(db *gorm.DB, access *AccessService, backend storage.Backend) *DeliveryService {
	return &DeliveryService{
		db:      db,
		access:  access,
		backend: backend,
	}
}

// Open authorizes the note for the user and opens its stored content.
// Authorization always happens before storage is touched.
func (d *DeliveryService) Open(ctx context.Context, user *model.User, noteID uint) (*DeliveryResult, error) {
	note, err := d.access.AuthorizeNote(user, noteID)
	if err != nil {
		return nil, err
	}

	content, size, err := d.backend.Open(ctx, note.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, ErrStorageMissing
		}
		return nil, err
	}

	return &DeliveryResult{
		Note:    note,
		Content: content,
		Size:    size,
	}, nil
}
