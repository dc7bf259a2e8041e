package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caludio70/boletosventa-sub000/internal/model"
)

const insertBatchSize = 500

// ordenImportacion reproduces the spreadsheet sequence across batches.
const ordenImportacion = "lotes_importacion.created_at, movimientos_ticket.lote_id, movimientos_ticket.orden"

type MovimientoRepository interface {
	// Reemplazar drops every stored row and stores movs as the only batch.
	Reemplazar(ctx context.Context, lote *model.LoteImportacion, movs []model.MovimientoTicket) error
	// Agregar appends movs as a new batch after the existing rows.
	Agregar(ctx context.Context, lote *model.LoteImportacion, movs []model.MovimientoTicket) error
	ListAll(ctx context.Context) ([]model.MovimientoTicket, error)
	ListByTicket(ctx context.Context, ticketID string) ([]model.MovimientoTicket, error)
	ListByCliente(ctx context.Context, codigoCliente string) ([]model.MovimientoTicket, error)
	FindLote(ctx context.Context, id uuid.UUID) (*model.LoteImportacion, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) Reemplazar(ctx context.Context, lote *model.LoteImportacion, movs []model.MovimientoTicket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.MovimientoTicket{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.LoteImportacion{}).Error; err != nil {
			return err
		}
		return crearLote(tx, lote, movs)
	})
}

func (r *movimientoRepo) Agregar(ctx context.Context, lote *model.LoteImportacion, movs []model.MovimientoTicket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return crearLote(tx, lote, movs)
	})
}

func crearLote(tx *gorm.DB, lote *model.LoteImportacion, movs []model.MovimientoTicket) error {
	if err := tx.Create(lote).Error; err != nil {
		return err
	}
	if len(movs) == 0 {
		return nil
	}
	for i := range movs {
		movs[i].LoteID = lote.ID
	}
	return tx.CreateInBatches(movs, insertBatchSize).Error
}

func (r *movimientoRepo) ordenados(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.MovimientoTicket{}).
		Joins("JOIN lotes_importacion ON lotes_importacion.id = movimientos_ticket.lote_id").
		Order(ordenImportacion)
}

func (r *movimientoRepo) ListAll(ctx context.Context) ([]model.MovimientoTicket, error) {
	var movs []model.MovimientoTicket
	err := r.ordenados(ctx).Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) ListByTicket(ctx context.Context, ticketID string) ([]model.MovimientoTicket, error) {
	var movs []model.MovimientoTicket
	err := r.ordenados(ctx).Where("movimientos_ticket.ticket_id = ?", ticketID).Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) ListByCliente(ctx context.Context, codigoCliente string) ([]model.MovimientoTicket, error) {
	var movs []model.MovimientoTicket
	// client codes are typed by hand; match case-insensitively
	err := r.ordenados(ctx).
		Where("UPPER(movimientos_ticket.codigo_cliente) = UPPER(?)", codigoCliente).
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) FindLote(ctx context.Context, id uuid.UUID) (*model.LoteImportacion, error) {
	var l model.LoteImportacion
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}
