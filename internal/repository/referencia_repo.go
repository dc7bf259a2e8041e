package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caludio70/boletosventa-sub000/internal/model"
)

type ReferenciaRepository interface {
	ListTasas(ctx context.Context) ([]model.TasaInteres, error)
	ListInflacion(ctx context.Context) ([]model.InflacionMensual, error)
	// SembrarSiVacio stores the given rows only into tables that are empty.
	SembrarSiVacio(ctx context.Context, tasas []model.TasaInteres, inflacion []model.InflacionMensual) error
	UpsertInflacion(ctx context.Context, meses []model.InflacionMensual) error
}

type referenciaRepo struct{ db *gorm.DB }

func NewReferenciaRepository(db *gorm.DB) ReferenciaRepository { return &referenciaRepo{db: db} }

func (r *referenciaRepo) ListTasas(ctx context.Context) ([]model.TasaInteres, error) {
	var tasas []model.TasaInteres
	err := r.db.WithContext(ctx).Order("desde").Find(&tasas).Error
	return tasas, err
}

func (r *referenciaRepo) ListInflacion(ctx context.Context) ([]model.InflacionMensual, error) {
	var meses []model.InflacionMensual
	err := r.db.WithContext(ctx).Order("anio, mes").Find(&meses).Error
	return meses, err
}

func (r *referenciaRepo) SembrarSiVacio(ctx context.Context, tasas []model.TasaInteres, inflacion []model.InflacionMensual) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.TasaInteres{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 && len(tasas) > 0 {
			if err := tx.Create(&tasas).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&model.InflacionMensual{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 && len(inflacion) > 0 {
			if err := tx.Create(&inflacion).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *referenciaRepo) UpsertInflacion(ctx context.Context, meses []model.InflacionMensual) error {
	if len(meses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "anio"}, {Name: "mes"}},
		DoUpdates: clause.AssignmentColumns([]string{"tasa"}),
	}).Create(&meses).Error
}
