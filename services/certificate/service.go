package certificate

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	er "github.com/certwatch/certwatch/internal/errors"
	"github.com/certwatch/certwatch/internal/models"
	"github.com/certwatch/certwatch/internal/tracing"

	"github.com/certwatch/certwatch/interfaces"
)

type certificateService struct {
	timeout time.Duration
}

func NewCertificateService(timeout time.Duration) interfaces.CertificateInspector {
	return &certificateService{
		timeout: timeout,
	}
}

type probeOutcome struct {
	info *models.CertificateInfo
	err  error
}

// Probe races the handshake against its own timer. The dialer carries the same
// timeout, but a stalled handshake after a successful dial would not trip it,
// so the hard deadline here is what actually bounds the call.
func (s *certificateService) Probe(ctx context.Context, host string) (*models.CertificateInfo, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "CertificateService.Probe")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.LogKV("host", host)

	resultCh := make(chan probeOutcome, 1)
	go func() {
		info, err := handshake(host, s.timeout)
		resultCh <- probeOutcome{info: info, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		if result.err != nil {
			checkErr := er.NewSSLCheckError(host, result.err)
			tracing.TraceErr(span, checkErr)
			return nil, checkErr
		}
		span.LogKV("validTo", result.info.ValidTo.String(), "issuer", result.info.Issuer)
		return result.info, nil
	case <-timer.C:
		checkErr := er.NewSSLCheckError(host, errors.New("SSL check timed out"))
		tracing.TraceErr(span, checkErr)
		return nil, checkErr
	case <-ctx.Done():
		checkErr := er.NewSSLCheckError(host, ctx.Err())
		tracing.TraceErr(span, checkErr)
		return nil, checkErr
	}
}

func handshake(host string, timeout time.Duration) (*models.CertificateInfo, error) {
	dialer := &net.Dialer{
		Timeout: timeout,
	}

	// Chain trust is not validated here: an expired or self-signed certificate
	// should still report its validity window.
	conn, err := tls.DialWithDialer(dialer, "tcp", hostPort(host), &tls.Config{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	peerCertificates := conn.ConnectionState().PeerCertificates
	if len(peerCertificates) == 0 {
		return nil, errors.New("no peer certificates presented")
	}

	leaf := peerCertificates[0]

	issuer := "Unknown"
	if len(leaf.Issuer.Organization) > 0 {
		issuer = leaf.Issuer.Organization[0]
	}

	return &models.CertificateInfo{
		ValidFrom: leaf.NotBefore,
		ValidTo:   leaf.NotAfter,
		Issuer:    issuer,
	}, nil
}

func hostPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "443")
}
