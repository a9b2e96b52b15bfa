package config

import (
	"os"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Firebase   FirebaseConfig
	Payment    PaymentConfig
	Email      EmailConfig
	Points     PointsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

// PaymentConfig for the card processor (PaymentIntents + Connect transfers).
type PaymentConfig struct {
	BaseURL          string
	SecretKey        string
	Currency         string
	WebhookSecret    string
	WebhookTolerance time.Duration
	// TestMode allows simulating a transfer when the platform test balance is
	// empty (balance_insufficient). Must stay off in production.
	TestMode             bool
	OnboardingReturnURL  string
	OnboardingRefreshURL string
}

// EmailConfig for the transactional email API.
type EmailConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

type PointsConfig struct {
	FirstBookingBonus int64
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "rently:rently@tcp(localhost:3306)/rently?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "rently",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", "https://api.rently.app/api/v1/auth/google/callback"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
		Payment: PaymentConfig{
			BaseURL:              getenv("PAYMENT_BASE_URL", "https://api.stripe.com"),
			SecretKey:            os.Getenv("PAYMENT_SECRET_KEY"),
			Currency:             getenv("PAYMENT_CURRENCY", "usd"),
			WebhookSecret:        os.Getenv("PAYMENT_WEBHOOK_SECRET"),
			WebhookTolerance:     5 * time.Minute,
			TestMode:             os.Getenv("PAYMENT_TEST_MODE") == "true",
			OnboardingReturnURL:  getenv("ONBOARDING_RETURN_URL", "https://rently.app/settings/payouts?onboarding=done"),
			OnboardingRefreshURL: getenv("ONBOARDING_REFRESH_URL", "https://rently.app/settings/payouts?onboarding=retry"),
		},
		Email: EmailConfig{
			BaseURL: getenv("EMAIL_BASE_URL", "https://api.resend.com"),
			APIKey:  os.Getenv("EMAIL_API_KEY"),
			From:    getenv("EMAIL_FROM", "Rently <no-reply@rently.app>"),
		},
		Points: PointsConfig{
			FirstBookingBonus: 500,
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
