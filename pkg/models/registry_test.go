package models

import (
	"context"
	"testing"

	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
)

type stubProvider struct{}

func (stubProvider) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	return llm.Message{Role: llm.RoleAssistant, Content: "ok"}, nil
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("qwen", config.ModelDef{ModelName: "qwen3-32b"}, stubProvider{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	provider, modelDef, err := r.Get("qwen")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if provider == nil {
		t.Fatal("provider is nil")
	}
	if modelDef.ModelName != "qwen3-32b" {
		t.Errorf("unexpected model def: %+v", modelDef)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("qwen", config.ModelDef{}, stubProvider{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("qwen", config.ModelDef{}, stubProvider{}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGetUnknown(t *testing.T) {
	r := NewRegistry()

	if _, _, err := r.Get("missing"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestGetWithFallback(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("default", config.ModelDef{ModelName: "fallback"}, stubProvider{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Запрошенная модель не зарегистрирована — возврат к дефолтной
	_, modelDef, actual, err := r.GetWithFallback("missing", "default")
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if actual != "default" || modelDef.ModelName != "fallback" {
		t.Errorf("unexpected fallback: %s / %+v", actual, modelDef)
	}

	// Пустое имя — сразу дефолтная
	_, _, actual, err = r.GetWithFallback("", "default")
	if err != nil {
		t.Fatalf("empty name fallback failed: %v", err)
	}
	if actual != "default" {
		t.Errorf("expected default, got %s", actual)
	}

	// Ни запрошенной, ни дефолтной нет
	if _, _, _, err := r.GetWithFallback("missing", "also-missing"); err == nil {
		t.Error("expected error when fallback model is missing")
	}
}
