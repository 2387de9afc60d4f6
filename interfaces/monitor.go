package interfaces

import (
	"context"

	"github.com/certwatch/certwatch/internal/models"
)

type MonitorService interface {
	RegisterDomain(ctx context.Context, domain, email string, notifyDays int) (*models.MonitoredDomain, error)
	ListDomains(ctx context.Context) ([]models.MonitoredDomain, error)
	RemoveDomain(ctx context.Context, id string) error
	CheckCertificates(ctx context.Context) error
}
