package config

import (
	"os"
	"strconv"
)

// Generative backends
const (
	BackendVertex   = "vertex"
	BackendGoogleAI = "googleai"
)

// Search providers
const (
	ProviderSerpAPI = "serpapi"
	ProviderPSE     = "pse"
)

// Config holds all configuration for the application
type Config struct {
	// Google Cloud
	ProjectID string
	Location  string

	// Generative provider
	GenerativeBackend string
	GeminiAPIKey      string
	GeminiModel       string

	// Search provider
	SearchProvider string
	SerpAPIKey     string
	PSEAPIKey      string
	PSEEngineID    string
	SearchCountry  string

	// Page fetching
	FetchServiceURL     string
	ProxyRelayURL       string
	SitesFile           string
	RedisURL            string
	PageCacheTTLMinutes int
	AllowPrivateFetch   bool
	FetchServiceToken   string

	// Server
	Port  string
	Debug bool

	// Timeouts
	HTTPTimeoutSeconds     int
	GenerateTimeoutSeconds int

	// Pipeline caps
	MaxURLs              int
	MaxJobs              int
	ResultsPerQuery      int
	ListFanout           int
	MaxConcurrentFetches int
	DefaultDateRangeDays int

	// Authentication
	JWTSecret string

	// Cloud Storage
	ResumeBucketName string

	// Credit ledger
	CreditsEnabled bool
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Google Cloud
		ProjectID: getEnv("PROJECT_ID", ""),
		Location:  getEnv("LOCATION", "us-central1"),

		// Generative provider
		GenerativeBackend: getEnv("GENERATIVE_BACKEND", BackendVertex),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		// Search provider
		SearchProvider: getEnv("SEARCH_PROVIDER", ProviderSerpAPI),
		SerpAPIKey:     getEnv("SERPAPI_KEY", ""),
		PSEAPIKey:      getEnv("PSE_API_KEY", ""),
		PSEEngineID:    getEnv("PSE_ENGINE_ID", ""),
		SearchCountry:  getEnv("SEARCH_COUNTRY", "us"),

		// Page fetching
		FetchServiceURL:     getEnv("FETCH_SERVICE_URL", ""),
		ProxyRelayURL:       getEnv("PROXY_RELAY_URL", "https://api.allorigins.win/raw?url="),
		SitesFile:           getEnv("SITES_FILE", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		PageCacheTTLMinutes: getEnvInt("PAGE_CACHE_TTL_MINUTES", 60),
		AllowPrivateFetch:   getEnvBool("ALLOW_PRIVATE_FETCH", false),
		FetchServiceToken:   getEnv("FETCH_SERVICE_TOKEN", ""),

		// Server
		Port:  getEnv("PORT", "8080"),
		Debug: getEnvBool("DEBUG", false),

		// Timeouts
		HTTPTimeoutSeconds:     getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		GenerateTimeoutSeconds: getEnvInt("GENERATE_TIMEOUT_SECONDS", 30),

		// Pipeline caps
		MaxURLs:              getEnvInt("MAX_URLS", 15),
		MaxJobs:              getEnvInt("MAX_JOBS", 20),
		ResultsPerQuery:      getEnvInt("RESULTS_PER_QUERY", 10),
		ListFanout:           getEnvInt("LIST_FANOUT", 4),
		MaxConcurrentFetches: getEnvInt("MAX_CONCURRENT_FETCHES", 4),
		DefaultDateRangeDays: getEnvInt("DEFAULT_DATE_RANGE_DAYS", 4),

		// Authentication
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		// Cloud Storage
		ResumeBucketName: getEnv("RESUME_BUCKET_NAME", ""),

		// Credit ledger
		CreditsEnabled: getEnvBool("CREDITS_ENABLED", true),
	}

	return cfg
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.GenerativeBackend {
	case BackendVertex:
		if c.ProjectID == "" {
			return &ConfigError{Field: "PROJECT_ID", Message: "PROJECT_ID is required for Vertex AI"}
		}
	case BackendGoogleAI:
		if c.GeminiAPIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "GEMINI_API_KEY is required for the googleai backend"}
		}
	default:
		return &ConfigError{Field: "GENERATIVE_BACKEND", Message: "GENERATIVE_BACKEND must be vertex or googleai"}
	}

	switch c.SearchProvider {
	case ProviderSerpAPI:
		if c.SerpAPIKey == "" {
			return &ConfigError{Field: "SERPAPI_KEY", Message: "SERPAPI_KEY is required for job search"}
		}
	case ProviderPSE:
		if c.PSEAPIKey == "" {
			return &ConfigError{Field: "PSE_API_KEY", Message: "PSE_API_KEY is required for job search"}
		}
		if c.PSEEngineID == "" {
			return &ConfigError{Field: "PSE_ENGINE_ID", Message: "PSE_ENGINE_ID is required for job search"}
		}
	default:
		return &ConfigError{Field: "SEARCH_PROVIDER", Message: "SEARCH_PROVIDER must be serpapi or pse"}
	}

	// Firestore backs the credit ledger
	if c.CreditsEnabled && c.ProjectID == "" {
		return &ConfigError{Field: "PROJECT_ID", Message: "PROJECT_ID is required when CREDITS_ENABLED is set"}
	}

	if c.MaxURLs <= 0 || c.MaxJobs <= 0 {
		return &ConfigError{Field: "MAX_URLS", Message: "MAX_URLS and MAX_JOBS must be positive"}
	}
	if c.DefaultDateRangeDays < 0 {
		return &ConfigError{Field: "DEFAULT_DATE_RANGE_DAYS", Message: "DEFAULT_DATE_RANGE_DAYS must not be negative"}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
