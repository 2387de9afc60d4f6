package interfaces

import (
	"context"

	"github.com/certwatch/certwatch/internal/models"
)

// CertificateInspector performs a live TLS handshake against a hostname and
// reports the validity window and issuer of the presented certificate.
// A single call makes a single probe; retry policy belongs to the caller.
type CertificateInspector interface {
	Probe(ctx context.Context, host string) (*models.CertificateInfo, error)
}
