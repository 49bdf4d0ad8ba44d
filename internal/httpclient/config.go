package httpclient

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthorizationConfig describes how to authenticate requests. The token is
// never stored in the YAML file itself, only the name of the environment
// variable holding it. Header defaults to "Authorization" with a Bearer
// prefix; APIs that use a bare token header (e.g. x-api-key) set Header and
// leave Type empty.
type AuthorizationConfig struct {
	Type        string `yaml:"type"`
	Header      string `yaml:"header"`
	TokenEnvVar string `yaml:"token_env_var"`
}

// ClientConfig represents the YAML configuration for one HTTP client.
type ClientConfig struct {
	BaseURL          string               `yaml:"base_url"`
	Timeout          string               `yaml:"timeout"`
	Headers          map[string]string    `yaml:"headers"`
	Authorization    *AuthorizationConfig `yaml:"authorization,omitempty"`
	RetryCount       int                  `yaml:"retry_count"`
	RetryWaitTime    string               `yaml:"retry_wait_time"`
	MaxRetryWaitTime string               `yaml:"max_retry_wait_time"`
	EnableLogging    bool                 `yaml:"enable_logging"`
}

// APIConfigs represents a map of named API configurations.
type APIConfigs struct {
	Clients map[string]ClientConfig `yaml:"clients"`
}

// LoadConfig loads client configurations from a YAML file.
func LoadConfig(path string) (*APIConfigs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var configs APIConfigs
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("error parsing YAML config: %w", err)
	}

	return &configs, nil
}

// GetClientConfig returns a client config by name with environment variable
// substitution applied to headers and authorization.
func (c *APIConfigs) GetClientConfig(name string) (*ClientConfig, error) {
	config, ok := c.Clients[name]
	if !ok {
		return nil, fmt.Errorf("client config not found: %s", name)
	}

	if config.Headers == nil {
		config.Headers = make(map[string]string)
	}

	if config.Authorization != nil {
		header, value, err := config.Authorization.resolve()
		if err != nil {
			return nil, err
		}
		config.Headers[header] = value
	}

	// Replace ${VAR_NAME} placeholders in remaining header values.
	for key, value := range config.Headers {
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envName := value[2 : len(value)-1]
			envValue := os.Getenv(envName)
			if envValue == "" {
				return nil, fmt.Errorf("environment variable %s is required but not set", envName)
			}
			config.Headers[key] = envValue
		}
	}

	return &config, nil
}

// resolve produces the header name and value for an authorization config.
func (a *AuthorizationConfig) resolve() (string, string, error) {
	if a.TokenEnvVar == "" {
		return "", "", fmt.Errorf("token_env_var is required in authorization configuration")
	}

	token := os.Getenv(a.TokenEnvVar)
	if token == "" {
		return "", "", fmt.Errorf("environment variable %s for authorization token is required but not set", a.TokenEnvVar)
	}

	header := a.Header
	if header == "" {
		header = "Authorization"
	}

	authType := a.Type
	if authType == "" && header == "Authorization" {
		authType = "Bearer"
	}

	if authType != "" {
		return header, authType + " " + token, nil
	}
	return header, token, nil
}

// ToConfig converts a ClientConfig to a runtime Config.
func (c *ClientConfig) ToConfig() (*Config, error) {
	config := DefaultConfig()

	if c.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required in client configuration")
	}
	config.BaseURL = c.BaseURL
	config.Headers = c.Headers
	config.RetryCount = c.RetryCount
	config.EnableLogging = c.EnableLogging

	if c.Timeout == "" {
		return nil, fmt.Errorf("timeout is required in client configuration")
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration: %w", err)
	}
	config.Timeout = timeout

	if c.RetryWaitTime != "" {
		retryWait, err := time.ParseDuration(c.RetryWaitTime)
		if err != nil {
			return nil, fmt.Errorf("invalid retry wait time: %w", err)
		}
		config.RetryWaitTime = retryWait
	}

	if c.MaxRetryWaitTime != "" {
		maxRetryWait, err := time.ParseDuration(c.MaxRetryWaitTime)
		if err != nil {
			return nil, fmt.Errorf("invalid max retry wait time: %w", err)
		}
		config.MaxRetryWaitTime = maxRetryWait
	}

	return config, nil
}

// CreateClient creates a new HTTP client with this configuration.
func (c *ClientConfig) CreateClient() (*Client, error) {
	config, err := c.ToConfig()
	if err != nil {
		return nil, err
	}

	client := NewClient(config)
	if c.EnableLogging {
		client.WithMiddleware(LoggingMiddleware())
	}

	return client, nil
}
