package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	er "github.com/certwatch/certwatch/internal/errors"
	"github.com/certwatch/certwatch/internal/models"
	"github.com/certwatch/certwatch/internal/tracing"
	"github.com/certwatch/certwatch/internal/utils"
)

type DomainRepository interface {
	Create(ctx context.Context, domain *models.MonitoredDomain) error
	GetAll(ctx context.Context) ([]models.MonitoredDomain, error)
	GetByID(ctx context.Context, id string) (*models.MonitoredDomain, error)
	DeleteByID(ctx context.Context, id string) error
}

type domainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) DomainRepository {
	return &domainRepository{
		db: db,
	}
}

func (r *domainRepository) Create(ctx context.Context, domain *models.MonitoredDomain) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.LogKV("domain", domain.Domain)

	now := utils.Now()
	if domain.ID == "" {
		domain.ID = uuid.NewString()
	}
	domain.CreatedAt = now
	domain.UpdatedAt = now

	err := r.db.WithContext(ctx).Create(domain).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return err
	}

	return nil
}

func (r *domainRepository) GetAll(ctx context.Context) ([]models.MonitoredDomain, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.GetAll")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	// Soonest-expiring first
	var domains []models.MonitoredDomain
	err := r.db.WithContext(ctx).
		Order("valid_to asc").
		Find(&domains).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return domains, nil
}

func (r *domainRepository) GetByID(ctx context.Context, id string) (*models.MonitoredDomain, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	var domain models.MonitoredDomain
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&domain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return &domain, nil
}

func (r *domainRepository) DeleteByID(ctx context.Context, id string) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.DeleteByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MonitoredDomain{})
	if result.Error != nil {
		tracing.TraceErr(span, errors.Wrap(result.Error, "db error"))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return er.ErrDomainNotFound
	}

	return nil
}
