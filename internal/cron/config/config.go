package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Certificate expiry sweep, daily at midnight in the checker timezone
	CronScheduleCertExpiry string `env:"CRON_SCHEDULE_CERT_EXPIRY" envDefault:"0 0 0 * * *"`
}
