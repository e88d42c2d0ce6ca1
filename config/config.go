package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool          `envconfig:"debug"`
	Port                     int           `envconfig:"port" default:"8080"`
	Env                      string        `envconfig:"env"`
	BaseUrl                  string        `envconfig:"base_url"`
	PostgresHost             string        `envconfig:"postgres_host"`
	PostgresPort             int           `envconfig:"postgres_port"`
	PostgresUser             string        `envconfig:"postgres_user"`
	PostgresPassword         string        `envconfig:"postgres_password"`
	PostgresDB               string        `envconfig:"postgres_db"`
	JWTSecret                string        `envconfig:"jwt_secret"`
	GeminiApiKey             string        `envconfig:"gemini_api_key"`
	GeminiModel              string        `envconfig:"gemini_model" default:"gemini-1.5-flash"`
	VerificationTimeout      time.Duration `envconfig:"verification_timeout" default:"30s"`
	VerificationConfidence   float64       `envconfig:"verification_confidence" default:"0.7"`
	NotificationPollInterval time.Duration `envconfig:"notification_poll_interval" default:"30s"`
	AwsRegion                string        `envconfig:"aws_region"`
	AwsAccessKeyID           string        `envconfig:"aws_access_key_id"`
	AwsSecretAccessKey       string        `envconfig:"aws_secret_access_key"`
	S3Bucket                 string        `envconfig:"s3_bucket"`
	MailgunApiKey            string        `envconfig:"mg_public_api_key"`
	MgDomain                 string        `envconfig:"mg_domain"`
	MgEmailFrom              string        `envconfig:"email_from"`
	GoogleClientID           string        `envconfig:"google_client_id"`
	GoogleClientSecret       string        `envconfig:"google_client_secret"`
	GoogleRedirectURL        string        `envconfig:"google_redirect_url"`
	AccessControlAllowOrigin string        `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("greenloop", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
