package models

import (
	"time"
)

// MonitoredDomain is a domain whose certificate expiry is tracked. The validity
// window and issuer are captured from the probe at registration time and go stale
// between sweeps; the sweep always works from a fresh probe, not the stored values.
type MonitoredDomain struct {
	ID         string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Domain     string    `gorm:"column:domain;type:varchar(255);NOT NULL" json:"domain"`
	Email      string    `gorm:"column:email;type:varchar(255);NOT NULL" json:"email"`
	NotifyDays int       `gorm:"column:notify_days;NOT NULL" json:"notifyDays"`
	ValidFrom  time.Time `gorm:"column:valid_from;NOT NULL" json:"validFrom"`
	ValidTo    time.Time `gorm:"column:valid_to;NOT NULL;index:idx_domains_valid_to" json:"validTo"`
	Issuer     string    `gorm:"column:issuer;type:varchar(255);NOT NULL" json:"issuer"`
	CreatedAt  time.Time `gorm:"column:created_at;DEFAULT:current_timestamp" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;DEFAULT:current_timestamp" json:"updatedAt"`
}

func (MonitoredDomain) TableName() string {
	return "domains"
}
