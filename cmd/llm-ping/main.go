// llm-ping — утилита для проверки доступности LLM провайдера.
//
// Использование:
//   go run cmd/llm-ping/main.go [config.yaml] [model-alias]
//
// Отправляет модели короткое тестовое сообщение и показывает
// доступность и задержку. Без аргументов проверяет default_chat.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/models"
)

func main() {
	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", cfgPath, err)
	}

	modelRegistry, err := models.NewRegistryFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create model registry: %v", err)
	}

	modelAlias := cfg.Models.DefaultChat
	if len(os.Args) > 2 {
		modelAlias = os.Args[2]
	}

	provider, modelDef, actualName, err := modelRegistry.GetWithFallback(modelAlias, cfg.Models.DefaultChat)
	if err != nil {
		log.Fatalf("Failed to resolve model '%s': %v", modelAlias, err)
	}

	fmt.Printf("🔍 Testing LLM Provider: %s (%s/%s)\n\n", actualName, modelDef.Provider, modelDef.ModelName)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	start := time.Now()
	response, err := provider.Generate(ctx,
		[]llm.Message{{Role: llm.RoleUser, Content: "Hello"}},
		llm.WithMaxTokens(10),
	)
	latency := time.Since(start)

	if err != nil {
		fmt.Printf("❌ Status: UNAVAILABLE\n")
		fmt.Printf("   Model: %s\n", actualName)
		fmt.Printf("   Error: %v\n", err)
		fmt.Printf("   Latency: %dms\n", latency.Milliseconds())
		os.Exit(1)
	}

	fmt.Printf("✅ Status: AVAILABLE\n")
	fmt.Printf("   Provider: %s\n", modelDef.Provider)
	fmt.Printf("   Model: %s\n", modelDef.ModelName)
	fmt.Printf("   Latency: %dms\n", latency.Milliseconds())
	if response.Content != "" {
		fmt.Printf("   Response: %s\n", response.Content)
	}
}
