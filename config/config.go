package config

import (
	"github.com/spf13/viper"
)

// Config is built once in main and injected into the services that need it.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	JWT    JWTConfig
	Email  EmailConfig
	Mpesa  MpesaConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret string
}

type EmailConfig struct {
	SendgridKey string
	Sender      string
}

// MpesaConfig holds the Daraja STK-push credentials.
type MpesaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
}

// Load reads configuration from the environment (and a .env file if one is
// present) with sensible defaults for local development.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "5000")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "mobistore")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-this")
	viper.SetDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")

	// Missing .env is fine; the environment alone is enough.
	_ = viper.ReadInConfig()

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DATABASE"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		Email: EmailConfig{
			SendgridKey: viper.GetString("SENDGRID_API_KEY"),
			Sender:      viper.GetString("EMAIL_SENDER"),
		},
		Mpesa: MpesaConfig{
			BaseURL:        viper.GetString("MPESA_BASE_URL"),
			ConsumerKey:    viper.GetString("MPESA_CONSUMER_KEY"),
			ConsumerSecret: viper.GetString("MPESA_CONSUMER_SECRET"),
			Shortcode:      viper.GetString("MPESA_SHORTCODE"),
			Passkey:        viper.GetString("MPESA_PASSKEY"),
			CallbackURL:    viper.GetString("MPESA_CALLBACK_URL"),
		},
	}
}
