package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full server configuration, loaded from the environment.
type Config struct {
	HTTPPort  string
	MongoURI  string
	MongoDB   string
	RedisAddr string

	// RoomTTL bounds how long an untouched room snapshot survives in Redis.
	RoomTTL time.Duration

	HostUsername string
	HostPassword string
	JWTSecret    string

	CORSOrigins string
	LogLevel    string
}

func Load() *Config {
	return &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "quizrally"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RoomTTL:      getDuration("ROOM_TTL_HOURS", 6) * time.Hour,
		HostUsername: getEnv("HOST_USERNAME", "admin"),
		HostPassword: getEnv("HOST_PASSWORD", "password123"),
		JWTSecret:    getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultHours int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultHours)
}
