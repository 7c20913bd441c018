package config

import "os"

// Config holds the service configuration, read from the environment with
// development defaults.
type Config struct {
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	HTTPPort        string
	JWTSecret       string
	ManagerUsername string
	ManagerPassword string
	FileURLBase     string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "inducthub"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:        getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		ManagerUsername: getEnv("MANAGER_USERNAME", "admin"),
		ManagerPassword: getEnv("MANAGER_PASSWORD", "password123"),
		FileURLBase:     getEnv("FILE_URL_BASE", "/v1/files"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
