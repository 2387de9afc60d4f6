package interfaces

import (
	"context"
	"time"
)

type NotifierService interface {
	SendExpiryNotice(ctx context.Context, to, domain string, daysUntilExpiry int, expiresAt time.Time) error
}
