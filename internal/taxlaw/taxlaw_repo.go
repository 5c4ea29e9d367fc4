package taxlaw

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=taxlaw_repo.go -destination=mock/taxlaw_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, table *TaxLawTable) error
	FindByJurisdictionAndDate(ctx context.Context, jurisdiction string, date time.Time) ([]TaxLawTable, error)
	FindByVersion(ctx context.Context, jurisdiction string, version string) (*TaxLawTable, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, table *TaxLawTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *repository) FindByJurisdictionAndDate(
	ctx context.Context,
	jurisdiction string,
	date time.Time,
) ([]TaxLawTable, error) {
	var tables []TaxLawTable
	err := r.db.WithContext(ctx).
		Preload("Bands", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Reliefs").
		Where("jurisdiction = ?", jurisdiction).
		Where("effective_from <= ?", date).
		Where("effective_to IS NULL OR effective_to > ?", date).
		Find(&tables).Error
	return tables, err
}

func (r *repository) FindByVersion(
	ctx context.Context,
	jurisdiction string,
	version string,
) (*TaxLawTable, error) {
	var table TaxLawTable
	err := r.db.WithContext(ctx).
		Preload("Bands", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Reliefs").
		Where("jurisdiction = ?", jurisdiction).
		First(&table, "version = ?", version).Error
	return &table, err
}
