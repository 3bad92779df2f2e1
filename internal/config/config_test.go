package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/aura/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty temp dir so no stray aura.yaml or .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "greeting", cfg.Prompts.Greeting)
	assert.Equal(t, 10, cfg.Prompts.MaxWords)
	assert.Equal(t, config.ProviderOpenAI, cfg.LLM.Provider)
}

func TestLoad_FileEnvPrecedence(t *testing.T) {
	dir := chdir(t)

	yamlContent := `
server:
  addr: ":9000"
  shutdown_timeout: 10s
prompts:
  greeting: ""
  max_words: 5
llm:
  provider: anthropic
  model: from-file
  timeout: 30s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(yamlContent), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AURA_LLM_API_KEY=from-dotenv\n"), 0644))
	t.Setenv("AURA_LLM_MODEL", "from-env")

	cfg, err := config.Load(filepath.Join(dir, "custom.yaml"))
	require.NoError(t, err)
	// .env does not override real environment variables; clean up what godotenv set.
	t.Cleanup(func() { _ = os.Unsetenv("AURA_LLM_API_KEY") })

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "", cfg.Prompts.Greeting)
	assert.Equal(t, 5, cfg.Prompts.MaxWords)
	assert.Equal(t, config.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, "from-dotenv", cfg.LLM.APIKey)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	chdir(t)
	_, err := config.Load("missing.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	chdir(t)
	t.Setenv("AURA_PROMPTS_MAX_WORDS", "many")
	_, err := config.Load("")
	assert.ErrorContains(t, err, "AURA_PROMPTS_MAX_WORDS")
}

func TestLoad_ProviderKeyFallback(t *testing.T) {
	chdir(t)
	t.Setenv("OPENAI_API_KEY", "sk-native")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-native", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderMock
	require.NoError(t, cfg.Validate())

	cfg = config.Default()
	cfg.Prompts.Source = "ftp"
	cfg.Prompts.MaxWords = 0
	cfg.LLM.Temperature = 3

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"prompts.source", "prompts.max_words", "llm.temperature", "llm.api_key"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidate_RedisRequiresURL(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderMock
	cfg.Prompts.Source = config.SourceRedis

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompts.redis_url")
}
