package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string
	GinMode                string
	DatabaseURL            string
	FrontendURL            string // Frontend base URL (for shared idea links and QR codes)
	RedisURL               string
	JWTSecret              string  // Secret key for JWT token signing
	JWTTTL                 int     // JWT token expiration time in hours
	OpenAIAPIKey           string
	OpenAIModel            string
	OpenAIBaseURL          string // Optional, overrides the OpenAI API endpoint
	OpenAITemperature      float64
	TavilyAPIKey           string // Empty disables web search
	TavilyBaseURL          string
	SearchCacheTTL         int     // Search result cache TTL in minutes
	GenerateTimeout        int     // Upper bound for one generation request, in seconds
	RateLimitRPS           float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst         int     // Burst size for rate limiting
	RateLimitAuthRPS       float64 // Rate limit for auth endpoints (stricter)
	RateLimitAuthBurst     int     // Burst size for auth endpoints
	RateLimitGenerateRPS   float64 // Rate limit for idea generation (strictest, every call hits the LLM)
	RateLimitGenerateBurst int     // Burst size for idea generation
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		GinMode:                getEnv("GIN_MODE", ""),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		FrontendURL:            getEnv("FRONTEND_URL", "http://localhost:3000"),
		RedisURL:               getEnv("REDIS_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTTTL:                 getEnvInt("JWT_TTL_HOURS", 24),
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:          getEnv("OPENAI_BASE_URL", ""),
		OpenAITemperature:      getEnvFloat("OPENAI_TEMPERATURE", 0.7),
		TavilyAPIKey:           getEnv("TAVILY_API_KEY", ""),
		TavilyBaseURL:          getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
		SearchCacheTTL:         getEnvInt("SEARCH_CACHE_TTL_MINUTES", 60),
		GenerateTimeout:        getEnvInt("GENERATE_TIMEOUT_SECONDS", 90),
		RateLimitRPS:           getEnvFloat("RATE_LIMIT_RPS", 10),           // 10 requests per second for general API
		RateLimitBurst:         getEnvInt("RATE_LIMIT_BURST", 20),           // Allow bursts of 20
		RateLimitAuthRPS:       getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),       // 5 requests per second for auth
		RateLimitAuthBurst:     getEnvInt("RATE_LIMIT_AUTH_BURST", 10),      // Allow bursts of 10
		RateLimitGenerateRPS:   getEnvFloat("RATE_LIMIT_GENERATE_RPS", 0.2), // one generation every 5 seconds
		RateLimitGenerateBurst: getEnvInt("RATE_LIMIT_GENERATE_BURST", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
