package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caludio70/boletosventa-sub000/internal/model"
)

type DocumentoRepository interface {
	Create(ctx context.Context, d *model.Documento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Documento, error)
	Update(ctx context.Context, d *model.Documento) error
	// ListPendingRetries returns failed documents whose next_retry_at has passed.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Documento, error)
}

type documentoRepo struct{ db *gorm.DB }

func NewDocumentoRepository(db *gorm.DB) DocumentoRepository {
	return &documentoRepo{db: db}
}

func (r *documentoRepo) Create(ctx context.Context, d *model.Documento) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Documento, error) {
	var d model.Documento
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *documentoRepo) Update(ctx context.Context, d *model.Documento) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *documentoRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Documento, error) {
	var docs []model.Documento
	err := r.db.WithContext(ctx).
		Where("estado = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", "error", now).
		Order("next_retry_at").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}
