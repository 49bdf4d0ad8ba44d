package httpclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigBearerAuth(t *testing.T) {
	t.Setenv("TEST_API_TOKEN", "secret-token")

	path := writeConfigFile(t, `
clients:
  example:
    base_url: https://api.example.com/v1
    timeout: 30s
    retry_count: 2
    authorization:
      token_env_var: TEST_API_TOKEN
`)

	configs, err := LoadConfig(path)
	require.NoError(t, err)

	clientConfig, err := configs.GetClientConfig("example")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", clientConfig.Headers["Authorization"])

	config, err := clientConfig.ToConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 2, config.RetryCount)
}

func TestLoadConfigCustomAuthHeader(t *testing.T) {
	t.Setenv("TEST_API_KEY", "raw-key")

	path := writeConfigFile(t, `
clients:
  keyed:
    base_url: https://api.example.com
    timeout: 10s
    authorization:
      header: x-api-key
      token_env_var: TEST_API_KEY
`)

	configs, err := LoadConfig(path)
	require.NoError(t, err)

	clientConfig, err := configs.GetClientConfig("keyed")
	require.NoError(t, err)
	// No Bearer prefix for custom token headers.
	assert.Equal(t, "raw-key", clientConfig.Headers["x-api-key"])
}

func TestLoadConfigHeaderEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_HEADER_VALUE", "substituted")

	path := writeConfigFile(t, `
clients:
  sub:
    base_url: https://api.example.com
    timeout: 10s
    headers:
      X-Custom: ${TEST_HEADER_VALUE}
`)

	configs, err := LoadConfig(path)
	require.NoError(t, err)

	clientConfig, err := configs.GetClientConfig("sub")
	require.NoError(t, err)
	assert.Equal(t, "substituted", clientConfig.Headers["X-Custom"])
}

func TestGetClientConfigMissingToken(t *testing.T) {
	path := writeConfigFile(t, `
clients:
  broken:
    base_url: https://api.example.com
    timeout: 10s
    authorization:
      token_env_var: DEFINITELY_NOT_SET_ANYWHERE
`)

	configs, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = configs.GetClientConfig("broken")
	assert.Error(t, err)
}

func TestGetClientConfigUnknownName(t *testing.T) {
	path := writeConfigFile(t, `
clients: {}
`)

	configs, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = configs.GetClientConfig("nope")
	assert.Error(t, err)
}
