package config

import (
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/internal/tracing"
)

type AppConfig struct {
	APIPort string `env:"PORT" envDefault:"3000"`
	Logger  *logger.Config
	Tracing *tracing.JaegerConfig
}

type DatabaseConfig struct {
	Host            string `env:"CERTWATCH_POSTGRES_HOST,required"`
	Port            string `env:"CERTWATCH_POSTGRES_PORT,required"`
	User            string `env:"CERTWATCH_POSTGRES_USER,required"`
	DBName          string `env:"CERTWATCH_POSTGRES_DB_NAME,required"`
	Password        string `env:"CERTWATCH_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"CERTWATCH_POSTGRES_DB_MAX_CONN" envDefault:"20"`
	MaxIdleConn     int    `env:"CERTWATCH_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"10"`
	ConnMaxLifetime int    `env:"CERTWATCH_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"CERTWATCH_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"CERTWATCH_POSTGRES_SSL_MODE" envDefault:"disable"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST,required"`
	Port     string `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM,required"`
}

type CheckerConfig struct {
	// Hard per-probe deadline, independent of the dialer timeout
	ProbeTimeoutSeconds int `env:"SSL_PROBE_TIMEOUT_SECONDS" envDefault:"20"`
	// Registration probes only; the sweep never retries
	ProbeAttempts          int    `env:"SSL_PROBE_ATTEMPTS" envDefault:"3"`
	ProbeRetryDelaySeconds int    `env:"SSL_PROBE_RETRY_SECONDS" envDefault:"2"`
	Timezone               string `env:"CHECKER_TIMEZONE" envDefault:"UTC"`
}
