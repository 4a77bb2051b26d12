package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
models:
  default_chat: qwen
  definitions:
    qwen:
      provider: openai
      model_name: qwen3-32b
      api_key: ${TEST_API_KEY}
      base_url: https://api.groq.com/openai/v1
      max_tokens: 2048
      temperature: 0.3
      timeout: 60s
agent:
  max_tool_rounds: 5
  answer_mode: loop
  tool_timeout: 30s
catalog:
  source: file
  path: data/restaurants.json
reservations:
  path: data/reservations.json
app:
  debug: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	os.Setenv("TEST_API_KEY", "sk-test-123")
	defer os.Unsetenv("TEST_API_KEY")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	model, ok := cfg.GetChatModel("")
	if !ok {
		t.Fatal("default chat model not found")
	}
	if model.APIKey != "sk-test-123" {
		t.Errorf("env substitution failed: %q", model.APIKey)
	}
	if model.Timeout != 60*time.Second {
		t.Errorf("timeout not parsed: %v", model.Timeout)
	}
	if cfg.Agent.MaxToolRounds != 5 {
		t.Errorf("max_tool_rounds = %d, want 5", cfg.Agent.MaxToolRounds)
	}
	if cfg.Catalog.Path != "data/restaurants.json" {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MissingDefaultChat(t *testing.T) {
	yaml := `
models:
  definitions:
    qwen:
      provider: openai
catalog:
  source: file
  path: data/restaurants.json
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected validation error for missing default_chat")
	}
}

func TestLoad_UnknownDefaultModel(t *testing.T) {
	yaml := `
models:
  default_chat: missing
  definitions:
    qwen:
      provider: openai
catalog:
  source: file
  path: data/restaurants.json
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected validation error for undefined default model")
	}
}

func TestLoad_S3SourceRequiresEndpoint(t *testing.T) {
	yaml := `
models:
  default_chat: qwen
  definitions:
    qwen:
      provider: openai
catalog:
  source: s3
  bucket: foodiespot
  key: restaurants.json
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected validation error for missing s3 endpoint")
	}
}

func TestLoad_BadAnswerMode(t *testing.T) {
	yaml := `
models:
  default_chat: qwen
  definitions:
    qwen:
      provider: openai
agent:
  answer_mode: oracle
catalog:
  source: file
  path: data/restaurants.json
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected validation error for bad answer_mode")
	}
}
