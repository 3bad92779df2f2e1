package main

import (
	"bytes"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/aura"
	"github.com/aretw0/aura/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())

	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"system", "You are Aura."))
	require.NoError(t, mr.Set(redis.DefaultPrefix+"greeting", "Greet the user."))

	t.Setenv("AURA_PROMPTS_SOURCE", "redis")
	t.Setenv("AURA_REDIS_URL", "redis://"+mr.Addr())
	t.Setenv("AURA_LLM_PROVIDER", "mock")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "aura version "+aura.Version+"\n", out)
}

func TestValidate(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "validate", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid (prompts: redis, provider: mock)")
	assert.Contains(t, out, "[greeting agent]")
}

func TestValidate_Mermaid(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "validate", "--mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
}

func TestValidate_InvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("AURA_LLM_PROVIDER", "openai")
	t.Setenv("AURA_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := run(t, "validate", "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api_key")
}
