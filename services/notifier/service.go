package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/certwatch/certwatch/config"
	er "github.com/certwatch/certwatch/internal/errors"
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/internal/tracing"

	"github.com/certwatch/certwatch/interfaces"
)

type notifierService struct {
	cfg *config.SMTPConfig
	log logger.Logger
}

func NewNotifierService(cfg *config.SMTPConfig, log logger.Logger) interfaces.NotifierService {
	return &notifierService{
		cfg: cfg,
		log: log,
	}
}

// SendExpiryNotice composes and sends one expiry warning through the configured relay.
func (s *notifierService) SendExpiryNotice(ctx context.Context, to, domain string, daysUntilExpiry int, expiresAt time.Time) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "NotifierService.SendExpiryNotice")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.LogKV("to", to, "domain", domain, "daysUntilExpiry", daysUntilExpiry)

	message := buildExpiryMessage(s.cfg.From, to, domain, daysUntilExpiry, expiresAt)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, message); err != nil {
		notifyErr := er.NewNotificationError(to, err)
		tracing.TraceErr(span, notifyErr)
		return notifyErr
	}

	s.log.Infof("Sent expiry notice for %s to %s (%d days remaining)", domain, to, daysUntilExpiry)
	return nil
}

// buildExpiryMessage assembles the raw RFC 5322 message
func buildExpiryMessage(from, to, domain string, daysUntilExpiry int, expiresAt time.Time) []byte {
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      fmt.Sprintf("SSL Certificate Expiring Soon - %s", domain),
		"Date":         time.Now().Format(time.RFC1123Z),
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	buffer := bytes.NewBuffer(nil)
	writeHeaders(headers, buffer)

	buffer.WriteString("<h2>SSL Certificate Expiration Notice</h2>\r\n")
	buffer.WriteString(fmt.Sprintf("<p>The SSL certificate for <strong>%s</strong> will expire in %d days.</p>\r\n", domain, daysUntilExpiry))
	buffer.WriteString(fmt.Sprintf("<p>Expiration Date: %s</p>\r\n", expiresAt.Format("January 2, 2006")))
	buffer.WriteString("<p>Please ensure you renew the certificate before it expires to avoid any service interruptions.</p>\r\n")

	return buffer.Bytes()
}

// writeHeaders writes email headers to the buffer
func writeHeaders(headers map[string]string, buffer *bytes.Buffer) {
	for k, v := range headers {
		buffer.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	buffer.WriteString("\r\n")
}
