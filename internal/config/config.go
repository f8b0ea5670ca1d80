package config

import (
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultConfigPath = "configs/config_local.toml"

type MainConfig struct {
	AppName   string `toml:"appName"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	EnableTLS bool   `toml:"enableTLS"`
	CertFile  string `toml:"certFile"`
	KeyFile   string `toml:"keyFile"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	MaxOpenConns int    `toml:"maxOpenConns"`
	MaxIdleConns int    `toml:"maxIdleConns"`
}

type LogConfig struct {
	LogPath    string `toml:"logPath"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAgeDays int    `toml:"maxAgeDays"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

// APIKey binds a static key to exactly one tenant.
type APIKey struct {
	Key    string `toml:"key"`
	Tenant string `toml:"tenant"`
	Name   string `toml:"name"`
}

type AuthConfig struct {
	APIKeys []APIKey `toml:"apiKeys"`
}

type TenantConfig struct {
	// Entitlements maps a tenant id to the features it may use ("notifications", "analysis").
	Entitlements map[string][]string `toml:"entitlements"`
}

type AIChatModelConfig struct {
	Provider        string `toml:"provider"`
	APIKey          string `toml:"apiKey"`
	AccessKey       string `toml:"accessKey"`
	SecretKey       string `toml:"secretKey"`
	BaseURL         string `toml:"baseURL"`
	Region          string `toml:"region"`
	Model           string `toml:"model"`
	TimeoutSeconds  int    `toml:"timeoutSeconds"`
	RetryTimes      int    `toml:"retryTimes"`
	ByAzure         bool   `toml:"byAzure"`
	AzureAPIVersion string `toml:"azureApiVersion"`
}

type AIConfig struct {
	ChatModel AIChatModelConfig `toml:"chatModel"`
}

type AnalysisConfig struct {
	Criteria        []string `toml:"criteria"`
	CacheTTLSeconds int      `toml:"cacheTTLSeconds"`
	MaxTextLength   int      `toml:"maxTextLength"`
	DefaultLanguage string   `toml:"defaultLanguage"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type KafkaConfig struct {
	Brokers         []string `toml:"brokers"`
	ClientID        string   `toml:"clientID"`
	AnalysisTopic   string   `toml:"analysisTopic"`
	RequestTopic    string   `toml:"requestTopic"`
	ConsumerGroupID string   `toml:"consumerGroupID"`
}

// MCPConfig MCP tool surface
type MCPConfig struct {
	Enabled bool   `toml:"enabled"`
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type Config struct {
	MainConfig     `toml:"mainConfig"`
	MysqlConfig    `toml:"mysqlConfig"`
	LogConfig      `toml:"logConfig"`
	JwtConfig      `toml:"jwtConfig"`
	AuthConfig     `toml:"authConfig"`
	TenantConfig   `toml:"tenantConfig"`
	AIConfig       `toml:"aiConfig"`
	AnalysisConfig `toml:"analysisConfig"`
	RedisConfig    `toml:"redisConfig"`
	KafkaConfig    `toml:"kafkaConfig"`
	MCPConfig      `toml:"mcpConfig"`
}

var config *Config

// Load decodes the toml file at path on top of the defaults.
func Load(path string) (*Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return conf, err
	}
	conf.applyDefaults()
	return conf, nil
}

// Default returns a configuration usable without any file.
func Default() *Config {
	conf := new(Config)
	conf.applyDefaults()
	return conf
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "MaintLens"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.AnalysisConfig.MaxTextLength <= 0 {
		c.AnalysisConfig.MaxTextLength = 4000
	}
	if c.AnalysisConfig.DefaultLanguage == "" {
		c.AnalysisConfig.DefaultLanguage = "en"
	}
	if c.AnalysisConfig.CacheTTLSeconds <= 0 {
		c.AnalysisConfig.CacheTTLSeconds = 3600
	}
	if c.MCPConfig.Name == "" {
		c.MCPConfig.Name = "maintlens"
	}
	if c.MCPConfig.Version == "" {
		c.MCPConfig.Version = "1.0.0"
	}
}

// Entitled reports whether tenant may use feature.
func (c *Config) Entitled(tenant string, feature string) bool {
	for _, f := range c.TenantConfig.Entitlements[tenant] {
		if strings.EqualFold(f, feature) || f == "*" {
			return true
		}
	}
	return false
}

// LookupAPIKey returns the configured key entry matching key.
func (c *Config) LookupAPIKey(key string) (APIKey, bool) {
	if key == "" {
		return APIKey{}, false
	}
	for _, k := range c.AuthConfig.APIKeys {
		if k.Key == key {
			return k, true
		}
	}
	return APIKey{}, false
}

func LoadConfig() error {
	configPath := defaultConfigPath
	if p := strings.TrimSpace(os.Getenv("MAINTLENS_CONFIG")); p != "" {
		configPath = p
	}
	conf, err := Load(configPath)
	config = conf
	if err != nil {
		log.Printf("failed to load config %s: %v, falling back to defaults", configPath, err)
		return err
	}
	return nil
}

func GetConfig() *Config {
	if config == nil {
		_ = LoadConfig()
	}
	return config
}

// SetConfig replaces the process configuration.
func SetConfig(c *Config) {
	config = c
}
