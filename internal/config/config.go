package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Store    StoreConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

// StorageConfig selects and configures the image object store.
// Backend is either "local" (directory served by this process) or "drive"
// (Google Drive folder with a service account).
type StorageConfig struct {
	Backend          string
	LocalDir         string
	PublicBaseURL    string
	DriveCredentials string
	DriveFolderID    string
}

// StoreConfig carries storefront-facing settings.
type StoreConfig struct {
	WhatsAppNumber  string
	DefaultCategory string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("STORAGE_BACKEND", "local")
	viper.SetDefault("STORAGE_LOCAL_DIR", "data/images")
	viper.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/images")
	viper.SetDefault("STORE_DEFAULT_CATEGORY", "T-Shirts")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Storage: StorageConfig{
			Backend:          viper.GetString("STORAGE_BACKEND"),
			LocalDir:         viper.GetString("STORAGE_LOCAL_DIR"),
			PublicBaseURL:    viper.GetString("STORAGE_PUBLIC_BASE_URL"),
			DriveCredentials: viper.GetString("STORAGE_DRIVE_CREDENTIALS"),
			DriveFolderID:    viper.GetString("STORAGE_DRIVE_FOLDER_ID"),
		},
		Store: StoreConfig{
			WhatsAppNumber:  viper.GetString("STORE_WHATSAPP_NUMBER"),
			DefaultCategory: viper.GetString("STORE_DEFAULT_CATEGORY"),
		},
	}
}
