package initializers

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type MpesaConfig struct {
	BaseURL            string        `mapstructure:"MPESA_BASE_URL" validate:"required,url"`
	ConsumerKey        string        `mapstructure:"MPESA_CONSUMER_KEY"`
	ConsumerSecret     string        `mapstructure:"MPESA_CONSUMER_SECRET"`
	ShortCode          string        `mapstructure:"MPESA_SHORTCODE"`
	BusinessShortCode  string        `mapstructure:"MPESA_BUSINESS_SHORTCODE"`
	Passcode           string        `mapstructure:"MPESA_PASSCODE"`
	CallbackURL        string        `mapstructure:"MPESA_CALLBACK_URL"`
	ConfirmationURL    string        `mapstructure:"MPESA_CONFIRMATION_URL"`
	ValidationURL      string        `mapstructure:"MPESA_VALIDATION_URL"`
	InitiatorName      string        `mapstructure:"MPESA_INITIATOR_NAME"`
	SecurityCredential string        `mapstructure:"MPESA_SECURITY_CREDENTIAL"`
	PartyA             string        `mapstructure:"MPESA_PARTY_A"`
	TimeoutURL         string        `mapstructure:"MPESA_TIMEOUT_URL"`
	ResultURL          string        `mapstructure:"MPESA_RESULT_URL"`
	Timeout            time.Duration `mapstructure:"MPESA_TIMEOUT" validate:"min=0"`
}

type MailConfig struct {
	From        string `mapstructure:"FROM_EMAIL"`
	Password    string `mapstructure:"FROM_EMAIL_PASSWORD"`
	SMTPHost    string `mapstructure:"FROM_EMAIL_SMTP"`
	SMTPAddress string `mapstructure:"SMTP_ADDRESS"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (m MailConfig) Enabled() bool {
	return m.From != "" && m.SMTPAddress != ""
}

type Config struct {
	Port          string        `mapstructure:"PORT" validate:"required"`
	SecretKey     string        `mapstructure:"SECRET_KEY"`
	DBType        string        `mapstructure:"DB_TYPE" validate:"oneof=sqlite postgres postgresql mysql sqlserver"`
	DatabaseURI   string        `mapstructure:"DATABASE_URI" validate:"required"`
	JWTSecretKey  string        `mapstructure:"JWT_SECRET_KEY" validate:"required"`
	JWTTTL        time.Duration `mapstructure:"JWT_TTL" validate:"required"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	CORSOrigins   string        `mapstructure:"CORS_ORIGINS"`
	S3Bucket      string        `mapstructure:"S3_BUCKET"`

	Mpesa MpesaConfig `mapstructure:",squash"`
	Mail  MailConfig  `mapstructure:",squash"`
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

var envKeys = []string{
	"PORT", "SECRET_KEY", "DB_TYPE", "DATABASE_URI", "JWT_SECRET_KEY", "JWT_TTL",
	"REDIS_ADDR", "REDIS_PASSWORD", "CORS_ORIGINS", "S3_BUCKET",
	"MPESA_BASE_URL", "MPESA_CONSUMER_KEY", "MPESA_CONSUMER_SECRET", "MPESA_SHORTCODE",
	"MPESA_BUSINESS_SHORTCODE", "MPESA_PASSCODE", "MPESA_CALLBACK_URL", "MPESA_CONFIRMATION_URL",
	"MPESA_VALIDATION_URL", "MPESA_INITIATOR_NAME", "MPESA_SECURITY_CREDENTIAL", "MPESA_PARTY_A",
	"MPESA_TIMEOUT_URL", "MPESA_RESULT_URL", "MPESA_TIMEOUT",
	"FROM_EMAIL", "FROM_EMAIL_PASSWORD", "FROM_EMAIL_SMTP", "SMTP_ADDRESS", "FRONTEND_URL",
}

// LoadConfig reads configuration from the environment, applying defaults, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_TYPE", "sqlite")
	v.SetDefault("DATABASE_URI", "bookstore.db")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")
	v.SetDefault("MPESA_TIMEOUT", "30s")

	// Unmarshal only sees env values for keys viper knows about.
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, formatConfigErrors(err)
	}
	return &cfg, nil
}

func formatConfigErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
