package model

import "time"

// Config holds the complete runtime configuration
type Config struct {
	YouTube YouTubeConfig `yaml:"youtube"`
	LLM     LLMConfig     `yaml:"llm"`
	Search  SearchConfig  `yaml:"search"`
	HTTP    HTTPConfig    `yaml:"http"`
	Cache   CacheConfig   `yaml:"cache"`
	Verify  VerifyConfig  `yaml:"verify"`
	Quota   QuotaConfig   `yaml:"quota"`
	Server  ServerConfig  `yaml:"server"`
	Output  OutputConfig  `yaml:"output"`
}

// YouTubeConfig configures the caption acquisition strategies
type YouTubeConfig struct {
	APIKey      string `yaml:"api_key,omitempty"` // Data API key; empty disables the official strategy
	YTDLPPath   string `yaml:"ytdlp_path"`        // yt-dlp binary path
	FFmpegPath  string `yaml:"ffmpeg_path"`       // ffmpeg binary path (audio fallback)
	MaxAudioMB  int    `yaml:"max_audio_mb"`      // Whisper upload ceiling
	AudioFormat string `yaml:"audio_format"`      // Compressed codec for the audio fallback
}

// LLMConfig configures the language-model backend
type LLMConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	TranscribeModel string `yaml:"transcribe_model"`
	APIKey          string `yaml:"-"` // From environment only, never persisted
	BaseURL         string `yaml:"base_url,omitempty"`
	Timeout         int    `yaml:"timeout"` // Seconds
	MaxTokens       int    `yaml:"max_tokens"`
}

// SearchConfig configures the web-search backend
type SearchConfig struct {
	APIKey     string        `yaml:"-"` // From environment only
	BaseURL    string        `yaml:"base_url,omitempty"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxResults int           `yaml:"max_results"`
	RateLimit  float64       `yaml:"rate_limit"` // Requests per second per host
	RateBurst  int           `yaml:"rate_burst"`
}

// HTTPConfig configures outbound HTTP behavior
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty"`
	NoProxy    string        `yaml:"no_proxy,omitempty"`
}

// CacheConfig configures the transcript cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// VerifyConfig configures claim verification
type VerifyConfig struct {
	SampleSize int `yaml:"sample_size"` // Claims sampled when not exhaustive
	Workers    int `yaml:"workers"`     // Concurrent verification bound
}

// QuotaConfig configures the per-user usage store
type QuotaConfig struct {
	Path         string `yaml:"path"` // sqlite database path
	DailyLimit   int    `yaml:"daily_limit"`
	MonthlyLimit int    `yaml:"monthly_limit"`
}

// ServerConfig configures the HTTP adapter
type ServerConfig struct {
	Port         int      `yaml:"port"`
	AuthToken    string   `yaml:"-"` // Static bearer token; from environment only
	AllowOrigins []string `yaml:"allow_origins"`
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Verbose bool   `yaml:"verbose"`
	JSON    string `yaml:"json,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		YouTube: YouTubeConfig{
			YTDLPPath:   "yt-dlp",
			FFmpegPath:  "ffmpeg",
			MaxAudioMB:  25,
			AudioFormat: "mp3",
		},
		LLM: LLMConfig{
			Provider:        "openai",
			Model:           "gpt-4o",
			TranscribeModel: "whisper-1",
			Timeout:         60,
			MaxTokens:       2000,
		},
		Search: SearchConfig{
			Timeout:    10 * time.Second,
			MaxResults: 5,
			RateLimit:  1,
			RateBurst:  3,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "TruthQuest/1.0 (+https://github.com/truthquest/truthquest)",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     1 * time.Hour,
		},
		Verify: VerifyConfig{
			SampleSize: 7,
			Workers:    4,
		},
		Quota: QuotaConfig{
			Path:         "truthquest.db",
			DailyLimit:   10,
			MonthlyLimit: 100,
		},
		Server: ServerConfig{
			Port:         3001,
			AllowOrigins: []string{"*"},
		},
	}
}
