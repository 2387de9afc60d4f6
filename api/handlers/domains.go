package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	er "github.com/certwatch/certwatch/internal/errors"
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/internal/tracing"

	"github.com/certwatch/certwatch/interfaces"
)

type AddDomainRequest struct {
	Domain     string `json:"domain"`
	Email      string `json:"email"`
	NotifyDays int    `json:"notifyDays"`
}

type DomainsHandler struct {
	monitor interfaces.MonitorService
	log     logger.Logger
}

func NewDomainsHandler(monitor interfaces.MonitorService, log logger.Logger) *DomainsHandler {
	return &DomainsHandler{
		monitor: monitor,
		log:     log,
	}
}

// AddDomain registers a new domain for certificate monitoring. The raw probe
// failure stays in logs and spans; the response carries a generic message.
func (h *DomainsHandler) AddDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.AddDomain")
		defer span.Finish()
		tracing.TagComponentRest(span)

		var req AddDomainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}

		record, err := h.monitor.RegisterDomain(ctx, req.Domain, req.Email, req.NotifyDays)
		if err != nil {
			tracing.TraceErr(span, err)

			if errors.Is(err, er.ErrMissingRequiredFields) || errors.Is(err, er.ErrInvalidNotifyDays) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
				return
			}

			var sslErr *er.SSLCheckError
			if errors.As(err, &sslErr) {
				h.log.Errorf("Error adding domain %s: %v", req.Domain, err)
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Failed to check SSL certificate. Please verify the domain is correct and accessible.",
				})
				return
			}

			h.log.Errorf("Error adding domain %s: %v", req.Domain, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add domain"})
			return
		}

		c.JSON(http.StatusCreated, record)
	}
}

// ListDomains returns all monitored domains, soonest-expiring first
func (h *DomainsHandler) ListDomains() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.ListDomains")
		defer span.Finish()
		tracing.TagComponentRest(span)

		domains, err := h.monitor.ListDomains(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			h.log.Errorf("Error fetching domains: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch domains"})
			return
		}

		c.JSON(http.StatusOK, domains)
	}
}

// DeleteDomain removes a monitored domain by id
func (h *DomainsHandler) DeleteDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.DeleteDomain")
		defer span.Finish()
		tracing.TagComponentRest(span)

		id := c.Param("id")
		tracing.TagEntity(span, id)

		err := h.monitor.RemoveDomain(ctx, id)
		if err != nil {
			if errors.Is(err, er.ErrDomainNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Domain not found"})
				return
			}
			tracing.TraceErr(span, err)
			h.log.Errorf("Error deleting domain %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete domain"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// CheckDomains triggers a certificate sweep outside the daily schedule. The
// sweep runs in the background; the response only acknowledges the start.
func (h *DomainsHandler) CheckDomains() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, _ := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.CheckDomains")
		defer span.Finish()
		tracing.TagComponentRest(span)

		go func() {
			defer tracing.RecoverAndLogToJaeger(h.log)
			if err := h.monitor.CheckCertificates(context.Background()); err != nil {
				h.log.Errorf("Manual certificate check failed: %v", err)
			}
		}()

		c.JSON(http.StatusAccepted, gin.H{"status": "check started"})
	}
}
