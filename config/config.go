package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	JWTSecret  string
	Port       string
	Env        string
	LogDir     string

	FrontendURL string

	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string
	GatewayTimeout    time.Duration

	MailProvider   string
	MailHost       string
	MailPort       int
	MailUser       string
	MailPass       string
	MailFrom       string
	SendGridAPIKey string
	AdminEmail     string

	SeedAdminEmail    string
	SeedAdminPassword string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	MediaFolder         string
	UploadDir           string
	OutboundTimeout     time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig loads configuration from a .env file, if present, and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:     getEnv("DB_HOST", utils.DefaultDBHost),
		DBPort:     getEnv("DB_PORT", utils.DefaultDBPort),
		DBUser:     getEnv("DB_USER", utils.DefaultDBUser),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", utils.DefaultDBName),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", utils.DefaultPort),
		Env:        getEnv("ENV", "development"),
		LogDir:     getEnv("LOG_DIR", utils.DefaultLogDir),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		Currency:          strings.ToUpper(getEnv("PAYMENT_CURRENCY", utils.DefaultCurrency)),
		GatewayTimeout:    getSeconds("GATEWAY_TIMEOUT_SECONDS", utils.DefaultGatewayTimeout),

		MailProvider:   strings.ToLower(getEnv("MAIL_PROVIDER", "smtp")),
		MailHost:       os.Getenv("MAIL_HOST"),
		MailPort:       getInt("MAIL_PORT", utils.DefaultMailPort),
		MailUser:       os.Getenv("MAIL_USER"),
		MailPass:       os.Getenv("MAIL_PASS"),
		MailFrom:       os.Getenv("MAIL_FROM"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		MediaFolder:         getEnv("FOLDER_NAME", "learningedge"),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		OutboundTimeout:     getSeconds("OUTBOUND_TIMEOUT_SECONDS", utils.DefaultOutboundTimeout),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", utils.DefaultEnrollmentTopic),
	}
	if config.MailFrom == "" {
		config.MailFrom = config.MailUser
	}
	if config.AdminEmail == "" {
		config.AdminEmail = config.MailFrom
	}

	return config, nil
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.RazorpayKeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.RazorpayKeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction reports whether the server runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CloudinaryEnabled reports whether media should go to Cloudinary instead of local disk
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getSeconds(key string, fallback time.Duration) time.Duration {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
