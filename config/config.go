package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	aws_pkg "github.com/veekshithcb/Qkartbackend/pkg/aws"
)

const secretName = "qkart/CART_SERVICE"

type Config struct {
	Port                 string
	Env                  string
	LogLevel             string
	MongoURL             string
	MongoDatabase        string
	RedisURL             string
	JWTSecret            string
	AccessTokenTTL       time.Duration
	DefaultAddress       string
	DefaultWalletMoney   decimal.Decimal
	DefaultPaymentOption string
	IdempotencyTTL       time.Duration
	IdempotencyLockTTL   time.Duration
	EventSink            string
	KafkaBrokers         string
	KafkaTopic           string
	CheckoutSNSTopicARN  string
	RateLimitPerMinute   int
	RateLimitBurst       int
	UseSecretsManager    bool
	AWSRegion            string
	AWSEndpoint          string
	AllowedOrigins       []string
}

// SecretGetter is satisfied by aws.SecretsClient.
type SecretGetter interface {
	GetSecretValues(ctx context.Context, name string) (map[string]string, error)
}

// Load reads configuration from the environment, after loading .env if
// present. When AWS_USE_SECRETS=true, credentials are overridden from
// Secrets Manager.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.UseSecretsManager {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return nil, err
		}
		if err := cfg.applySecrets(ctx, aws_pkg.NewSecretsClient(awsCfg, 0)); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	wallet, err := decimal.NewFromString(getEnv("DEFAULT_WALLET_MONEY", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_WALLET_MONEY: %w", err)
	}
	accessMinutes, err := getEnvInt("JWT_ACCESS_EXPIRATION_MINUTES", 240)
	if err != nil {
		return nil, err
	}
	idemTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}
	lockTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_LOCK_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_LOCK_TTL: %w", err)
	}
	perMinute, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 50)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                 getEnv("PORT", "8082"),
		Env:                  getEnv("APP_ENV", "development"),
		LogLevel:             os.Getenv("LOG_LEVEL"),
		MongoURL:             os.Getenv("MONGODB_URL"),
		MongoDatabase:        getEnv("MONGODB_DATABASE", "qkart"),
		RedisURL:             os.Getenv("REDIS_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AccessTokenTTL:       time.Duration(accessMinutes) * time.Minute,
		DefaultAddress:       getEnv("DEFAULT_ADDRESS", "ADDRESS_NOT_SET"),
		DefaultWalletMoney:   wallet,
		DefaultPaymentOption: getEnv("DEFAULT_PAYMENT_OPTION", "PAYMENT_OPTION_DEFAULT"),
		IdempotencyTTL:       idemTTL,
		IdempotencyLockTTL:   lockTTL,
		EventSink:            strings.ToLower(getEnv("EVENT_SINK", "none")),
		KafkaBrokers:         os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:           getEnv("KAFKA_TOPIC", "checkout.completed"),
		CheckoutSNSTopicARN:  os.Getenv("CHECKOUT_SNS_TOPIC_ARN"),
		RateLimitPerMinute:   perMinute,
		RateLimitBurst:       burst,
		UseSecretsManager:    os.Getenv("AWS_USE_SECRETS") == "true",
		AWSRegion:            os.Getenv("AWS_REGION"),
		AWSEndpoint:          os.Getenv("AWS_ENDPOINT"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}, nil
}

// applySecrets overrides JWT_SECRET and MONGODB_URL from a JSON secret.
func (c *Config) applySecrets(ctx context.Context, sm SecretGetter) error {
	m, err := sm.GetSecretValues(ctx, secretName)
	if err != nil {
		return err
	}
	if v := m["JWT_SECRET"]; v != "" {
		c.JWTSecret = v
	}
	if v := m["MONGODB_URL"]; v != "" {
		c.MongoURL = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.MongoURL == "" {
		return fmt.Errorf("MONGODB_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.EventSink {
	case "none":
	case "kafka":
		if c.KafkaBrokers == "" {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENT_SINK=kafka")
		}
	case "sns":
		if c.CheckoutSNSTopicARN == "" {
			return fmt.Errorf("CHECKOUT_SNS_TOPIC_ARN is required when EVENT_SINK=sns")
		}
	default:
		return fmt.Errorf("unknown EVENT_SINK %q", c.EventSink)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(csv string) []string {
	var out []string
	for _, v := range strings.Split(csv, ",") {
		if v = strings.TrimSuffix(strings.TrimSpace(v), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}
