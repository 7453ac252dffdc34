package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ActivityTopic      string
}

type DatabaseConfig struct {
	Connection string
}

type JWTConfig struct {
	Secret           string
	ExpireDays       int
	CookieExpireDays int
}

type StorageConfig struct {
	Bucket         string
	Region         string
	PublicBaseURL  string // public URL prefix stored objects are served from
	MaxUploadFiles int
	MaxFileSize    int64 // bytes
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ActivityTopic:      getEnv("ACTIVITY_TOPIC_NAME", "NOTE_ACTIVITY"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "default_secret"),
			ExpireDays:       getEnvAsInt("JWT_EXPIRE_DAYS", 30),
			CookieExpireDays: getEnvAsInt("COOKIE_EXPIRE_DAYS", 30),
		},
		Storage: StorageConfig{
			Bucket:         getEnv("S3_BUCKET_NAME", ""),
			Region:         getEnv("AWS_S3_REGION", "us-east-1"),
			PublicBaseURL:  getEnv("S3_PUBLIC_BASE_URL", ""),
			MaxUploadFiles: getEnvAsInt("MAX_UPLOAD_FILES", 5),
			MaxFileSize:    int64(getEnvAsInt("MAX_FILE_SIZE_BYTES", 10*1024*1024)),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "NoteHub"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
