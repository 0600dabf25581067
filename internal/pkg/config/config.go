package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/grandhotel/hotelops/internal/pkg/models"
)

var defaults = map[string]interface{}{
	"APP_NAME":                "hotelops-auth",
	"APP_ENV":                 "local",
	"APP_DEBUG":               false,
	"APP_VERSION":             "development",
	"SERVER_HOST":             "",
	"SERVER_PORT":             8080,
	"SERVER_SHUTDOWN_TIMEOUT": 30 * time.Second,
	"DB_HOST":                 "localhost",
	"DB_PORT":                 5432,
	"DB_USERNAME":             "postgres",
	"DB_PASSWORD":             "",
	"DB_DATABASE":             "hotel",
	"DB_SSL_MODE":             "disable",
	"DB_MAX_CONNS":            10,
	"DB_IDLE_CONNS":           2,
	"REDIS_HOST":              "",
	"REDIS_PORT":              6379,
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"REDIS_POOL_SIZE":         10,
	"NATS_URL":                "",
	"JWT_SECRET":              "",
	"JWT_EXPIRATION":          1440,
	"JWT_ISSUER":              "hotelops",
	"OTP_TTL":                 5 * time.Minute,
	"OTP_RETENTION":           24 * time.Hour,
	"OTP_PURGE_SCHEDULE":      "@every 1h",
	"OTP_EXPOSE_DEBUG":        false,
	"SMS_DRIVER":              models.SMSDriverLog,
	"SMS_SUBJECT":             "sms.otp.requested",
	"RATE_LIMIT_REQUESTS":     10,
	"RATE_LIMIT_PERIOD":       time.Minute,
	"LOG_LEVEL":               "info",
	"LOG_FILE_PATH":           "",
}

// InitConfig loads configuration from the environment. When APP_ENV is local
// (the default) the given env file is loaded first; a missing file is not fatal.
func InitConfig(envFile string) *models.Config {
	v := newViper()
	if v.GetString("APP_ENV") == "local" && envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ShutdownTimeout = v.GetDuration("SERVER_SHUTDOWN_TIMEOUT")

	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	configs.NATS.URL = v.GetString("NATS_URL")

	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Expiration = v.GetInt("JWT_EXPIRATION")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	configs.OTP.TTL = v.GetDuration("OTP_TTL")
	configs.OTP.Retention = v.GetDuration("OTP_RETENTION")
	configs.OTP.PurgeSchedule = v.GetString("OTP_PURGE_SCHEDULE")
	configs.OTP.ExposeDebug = v.GetBool("OTP_EXPOSE_DEBUG")

	configs.SMS.Driver = v.GetString("SMS_DRIVER")
	configs.SMS.Subject = v.GetString("SMS_SUBJECT")

	configs.RateLimit.Requests = v.GetInt("RATE_LIMIT_REQUESTS")
	configs.RateLimit.Period = v.GetDuration("RATE_LIMIT_PERIOD")

	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")

	return configs
}

// Validate checks the settings the HTTP server cannot run without
func Validate(cfg *models.Config) error {
	var errs []error
	if cfg.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if cfg.JWT.Expiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if cfg.Database.Host == "" || cfg.Database.Database == "" {
		errs = append(errs, errors.New("DB_HOST and DB_DATABASE are required"))
	}
	if cfg.OTP.TTL <= 0 {
		errs = append(errs, errors.New("OTP_TTL must be positive"))
	}
	switch cfg.SMS.Driver {
	case models.SMSDriverLog:
	case models.SMSDriverNATS:
		if cfg.NATS.URL == "" {
			errs = append(errs, errors.New("NATS_URL is required when SMS_DRIVER is nats"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SMS_DRIVER %q", cfg.SMS.Driver))
	}
	return errors.Join(errs...)
}
