// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	AWS     AWSConfig               `mapstructure:"aws"`
	Search  SearchConfig            `mapstructure:"search"`
	Scraper ScraperConfig           `mapstructure:"scraper"`
	Workers map[string]WorkerConfig `mapstructure:"workers"`
	Logging LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// AWSConfig holds settings for every AWS-backed adapter.
type AWSConfig struct {
	Region     string           `mapstructure:"region"`
	DynamoDB   DynamoDBConfig   `mapstructure:"dynamodb"`
	Bedrock    BedrockConfig    `mapstructure:"bedrock"`
	Comprehend ComprehendConfig `mapstructure:"comprehend"`
}

type DynamoDBConfig struct {
	Table          string `mapstructure:"table"`
	DeadlineIndex  string `mapstructure:"deadline_index"`
	LevelIndex     string `mapstructure:"level_index"`
	SubjectIndex   string `mapstructure:"subject_index"`
	StateIndex     string `mapstructure:"state_index"`
	EthnicityIndex string `mapstructure:"ethnicity_index"`
	GenderIndex    string `mapstructure:"gender_index"`
	GPAIndex       string `mapstructure:"gpa_index"`
}

type BedrockConfig struct {
	ModelID     string  `mapstructure:"model_id"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type ComprehendConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	LanguageCode string `mapstructure:"language_code"`
	MaxBytes     int    `mapstructure:"max_bytes"`
}

// SearchConfig bounds one aggregated search.
type SearchConfig struct {
	DefaultMaxResults int `mapstructure:"default_max_results"`
	MaxResultsCap     int `mapstructure:"max_results_cap"`
	OverallTimeout    int `mapstructure:"overall_timeout"`     // milliseconds
	PerAdapterTimeout int `mapstructure:"per_adapter_timeout"` // milliseconds
}

// ScraperConfig holds settings for the HTML scrape adapters.
type ScraperConfig struct {
	Sites         []ScrapeSiteConfig `mapstructure:"sites"`
	Timeout       int                `mapstructure:"timeout"` // milliseconds
	RetryAttempts int                `mapstructure:"retry_attempts"`
	BaseDelay     int                `mapstructure:"base_delay"` // milliseconds
	UserAgent     string             `mapstructure:"user_agent"`
}

type ScrapeSiteConfig struct {
	Name      string `mapstructure:"name"`
	URL       string `mapstructure:"url"`
	SearchURL string `mapstructure:"search_url"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
