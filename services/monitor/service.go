package monitor

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/certwatch/certwatch/config"
	er "github.com/certwatch/certwatch/internal/errors"
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/internal/models"
	"github.com/certwatch/certwatch/internal/repository"
	"github.com/certwatch/certwatch/internal/tracing"
	"github.com/certwatch/certwatch/internal/utils"

	"github.com/certwatch/certwatch/interfaces"
)

type monitorService struct {
	repos           *repository.Repositories
	inspector       interfaces.CertificateInspector
	notifier        interfaces.NotifierService
	log             logger.Logger
	probeAttempts   int
	probeRetryDelay time.Duration
}

func NewMonitorService(
	repos *repository.Repositories,
	inspector interfaces.CertificateInspector,
	notifier interfaces.NotifierService,
	log logger.Logger,
	cfg *config.CheckerConfig,
) interfaces.MonitorService {
	return &monitorService{
		repos:           repos,
		inspector:       inspector,
		notifier:        notifier,
		log:             log,
		probeAttempts:   cfg.ProbeAttempts,
		probeRetryDelay: time.Duration(cfg.ProbeRetryDelaySeconds) * time.Second,
	}
}

// RegisterDomain probes the domain's certificate and persists one row on success.
// The probe is fully resolved before the insert; no row is written on any failure path.
func (s *monitorService) RegisterDomain(ctx context.Context, domain, email string, notifyDays int) (*models.MonitoredDomain, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MonitorService.RegisterDomain")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.LogKV("request.domain", domain, "request.email", email, "request.notifyDays", notifyDays)

	if domain == "" || email == "" || notifyDays == 0 {
		tracing.TraceErr(span, er.ErrMissingRequiredFields)
		return nil, er.ErrMissingRequiredFields
	}
	if notifyDays < 0 {
		tracing.TraceErr(span, er.ErrInvalidNotifyDays)
		return nil, er.ErrInvalidNotifyDays
	}

	info, err := s.probeWithRetry(ctx, domain)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	record := &models.MonitoredDomain{
		Domain:     domain,
		Email:      email,
		NotifyDays: notifyDays,
		ValidFrom:  info.ValidFrom,
		ValidTo:    info.ValidTo,
		Issuer:     info.Issuer,
	}

	if err := s.repos.DomainRepository.Create(ctx, record); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "Error persisting domain"))
		return nil, err
	}

	s.log.Infof("Registered domain %s, certificate from %s expires %s", domain, record.Issuer, record.ValidTo)
	return record, nil
}

// probeWithRetry makes up to probeAttempts probes with a fixed delay between
// failures. The spacing does not grow; registration is interactive and the
// caller is blocked the whole time.
func (s *monitorService) probeWithRetry(ctx context.Context, domain string) (*models.CertificateInfo, error) {
	var info *models.CertificateInfo
	var err error

	for attempt := 1; attempt <= s.probeAttempts; attempt++ {
		info, err = s.inspector.Probe(ctx, domain)
		if err == nil {
			return info, nil
		}
		s.log.Warnf("SSL probe %d/%d for %s failed: %v", attempt, s.probeAttempts, domain, err)
		if attempt < s.probeAttempts {
			time.Sleep(s.probeRetryDelay)
		}
	}

	return nil, err
}

func (s *monitorService) ListDomains(ctx context.Context) ([]models.MonitoredDomain, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MonitorService.ListDomains")
	defer span.Finish()
	tracing.TagComponentService(span)

	domains, err := s.repos.DomainRepository.GetAll(ctx)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "Error fetching domains"))
		return nil, err
	}

	return domains, nil
}

func (s *monitorService) RemoveDomain(ctx context.Context, id string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MonitorService.RemoveDomain")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagEntity(span, id)

	err := s.repos.DomainRepository.DeleteByID(ctx, id)
	if err != nil {
		if !errors.Is(err, er.ErrDomainNotFound) {
			tracing.TraceErr(span, errors.Wrap(err, "Error deleting domain"))
		}
		return err
	}

	return nil
}

// CheckCertificates sweeps every monitored domain once, sequentially. Failures
// are contained per domain so one bad probe or bounced mail never stops the
// cycle. A domain still under threshold next cycle is notified again.
func (s *monitorService) CheckCertificates(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MonitorService.CheckCertificates")
	defer span.Finish()
	tracing.TagComponentService(span)

	domains, err := s.repos.DomainRepository.GetAll(ctx)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "Error fetching domains"))
		return err
	}

	s.log.Infof("Checking certificates for %d domains", len(domains))

	for _, domain := range domains {
		s.checkDomain(ctx, domain)
	}

	return nil
}

func (s *monitorService) checkDomain(ctx context.Context, domain models.MonitoredDomain) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MonitorService.checkDomain")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagEntity(span, domain.ID)
	span.LogKV("domain", domain.Domain)

	// Single probe, no retry: a flaky domain just waits for the next cycle
	info, err := s.inspector.Probe(ctx, domain.Domain)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Error checking SSL for %s: %v", domain.Domain, err)
		return
	}

	daysUntilExpiry := utils.DaysUntil(info.ValidTo)
	span.LogKV("daysUntilExpiry", daysUntilExpiry)

	if daysUntilExpiry > domain.NotifyDays {
		return
	}

	err = s.notifier.SendExpiryNotice(ctx, domain.Email, domain.Domain, daysUntilExpiry, info.ValidTo)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Error notifying %s about %s: %v", domain.Email, domain.Domain, err)
	}
}
