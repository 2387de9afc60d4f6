package handlers

import (
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/services"
)

type Handlers struct {
	Domains *DomainsHandler
}

func InitHandlers(s *services.Services, log logger.Logger) *Handlers {
	return &Handlers{
		Domains: NewDomainsHandler(s.MonitorService, log),
	}
}
