package models

import (
	"time"
)

// CertificateInfo is the result of a live TLS probe. It is never persisted as-is;
// registration copies the fields into a MonitoredDomain row.
type CertificateInfo struct {
	ValidFrom time.Time
	ValidTo   time.Time
	Issuer    string
}
