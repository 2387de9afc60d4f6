package services

import (
	"time"

	"github.com/certwatch/certwatch/config"
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/internal/repository"
	"github.com/certwatch/certwatch/services/certificate"
	"github.com/certwatch/certwatch/services/monitor"
	"github.com/certwatch/certwatch/services/notifier"

	"github.com/certwatch/certwatch/interfaces"
)

type Services struct {
	CertificateInspector interfaces.CertificateInspector
	NotifierService      interfaces.NotifierService
	MonitorService       interfaces.MonitorService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) *Services {
	inspector := certificate.NewCertificateService(
		time.Duration(cfg.CheckerConfig.ProbeTimeoutSeconds) * time.Second,
	)
	notifierService := notifier.NewNotifierService(cfg.SMTPConfig, log)

	return &Services{
		CertificateInspector: inspector,
		NotifierService:      notifierService,
		MonitorService:       monitor.NewMonitorService(repos, inspector, notifierService, log, cfg.CheckerConfig),
	}
}
