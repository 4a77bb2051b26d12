// Tools Test Utility - CLI утилита для прямого вызова инструментов.
//
// Режимы:
//   go run cmd/tools-test/main.go                      # список инструментов
//   go run cmd/tools-test/main.go <tool> '<args json>' # один вызов
//   go run cmd/tools-test/main.go -all                 # smoke-прогон lookup инструментов
//
// Инструментам не нужна модель: утилита собирает каталог и журнал
// бронирований из config.yaml и вызывает реестр напрямую.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/reservation"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
	"github.com/foodiespot/foodiespot-ai/pkg/tools/std"
	"github.com/foodiespot/foodiespot-ai/pkg/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к конфигурационному файлу")
	runAll := flag.Bool("all", false, "вызвать все lookup инструменты без аргументов")
	flag.Parse()

	if err := run(*configPath, *runAll, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, runAll bool, args []string) error {
	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}
	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cat, err := catalog.LoadStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	res, err := reservation.NewStore(cfg.Reservations.Path)
	if err != nil {
		return fmt.Errorf("open reservation store: %w", err)
	}

	registry := tools.NewRegistry()
	if err := std.RegisterAll(registry, cat, res); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	utils.Info("tools-test started", "restaurants", cat.Len())

	switch {
	case runAll:
		return invokeAll(ctx, registry)
	case len(args) >= 1:
		argsJSON := "{}"
		if len(args) >= 2 {
			argsJSON = args[1]
		}
		invoke(ctx, registry, args[0], argsJSON)
		return nil
	default:
		listTools(registry)
		return nil
	}
}

// listTools печатает все зарегистрированные инструменты.
func listTools(registry *tools.Registry) {
	defs := registry.GetDefinitions()
	fmt.Printf("Registered tools (%d):\n\n", len(defs))
	for _, def := range defs {
		fmt.Printf("  %s\n      %s\n", def.Name, def.Description)
	}
	fmt.Println("\nUsage: tools-test <tool> '<args json>'")
}

// invokeAll прогоняет lookup инструменты, которым не нужны аргументы,
// и пару типичных вызовов с аргументами.
func invokeAll(ctx context.Context, registry *tools.Registry) error {
	calls := []struct {
		name string
		args string
	}{
		{"get_all_cuisines", "{}"},
		{"get_all_ambiences", "{}"},
		{"get_matching_locations", `{"area": "Koramangala"}`},
		{"get_cuisine_by_area", `{"area": "Koramangala"}`},
		{"recommend_restaurants", `{"area": "Koramangala"}`},
	}

	for _, call := range calls {
		invoke(ctx, registry, call.name, call.args)
		fmt.Println()
	}
	return nil
}

// invoke выполняет один инструмент и печатает результат.
func invoke(ctx context.Context, registry *tools.Registry, name, argsJSON string) {
	fmt.Printf("⚙ %s(%s)\n", name, argsJSON)

	start := time.Now()
	result := registry.Invoke(ctx, name, argsJSON)
	duration := time.Since(start)

	fmt.Printf("  ↳ %s\n  (%s)\n", result, duration)
}
