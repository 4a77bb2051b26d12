// Package agent предоставляет простой API для запуска FoodieSpot агента.
//
// Пакет является фасадом над chain.ReActCycle и скрывает инициализацию
// компонентов (конфигурация, реестр моделей, каталог, журнал
// бронирований, инструменты).
//
// Basic usage:
//
//	client, _ := agent.New(ctx, agent.Config{ConfigPath: "config.yaml"})
//	defer client.Close()
//	answer, _ := client.Run(ctx, "Find me an Italian place in Koramangala")
package agent

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/chain"
	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/events"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/models"
	"github.com/foodiespot/foodiespot-ai/pkg/reservation"
	"github.com/foodiespot/foodiespot-ai/pkg/state"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
	"github.com/foodiespot/foodiespot-ai/pkg/tools/std"
	"github.com/foodiespot/foodiespot-ai/pkg/utils"
)

// Client — диалоговый агент FoodieSpot.
//
// Thread-safe: Run сериализуется мьютексом (один ход диалога за раз),
// геттеры безопасны для конкурентного вызова.
type Client struct {
	reactCycle    *chain.ReActCycle
	modelRegistry *models.Registry
	toolsRegistry *tools.Registry
	state         *state.CoreState
	config        *config.AppConfig
	emitter       *events.ChanEmitter

	// runMu сериализует ходы диалога
	runMu sync.Mutex
}

// Config определяет параметры создания агента.
//
// Все поля опциональны: при пустых значениях используются значения
// из config.yaml или встроенные умолчания.
type Config struct {
	// ConfigPath — путь к config.yaml (пусто = "config.yaml")
	ConfigPath string

	// SystemPrompt — override системного промпта
	SystemPrompt string

	// MaxToolRounds — override бюджета раундов инструментов
	MaxToolRounds int
}

// New создаёт агента: загружает конфигурацию, каталог ресторанов,
// журнал бронирований, регистрирует инструменты и собирает цикл.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = "config.yaml"
	}

	appCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	modelRegistry, err := models.NewRegistryFromConfig(appCfg)
	if err != nil {
		return nil, fmt.Errorf("create model registry: %w", err)
	}

	cat, err := catalog.LoadStore(ctx, appCfg)
	if err != nil {
		return nil, fmt.Errorf("load restaurant catalog: %w", err)
	}

	res, err := reservation.NewStore(appCfg.Reservations.Path)
	if err != nil {
		return nil, fmt.Errorf("open reservation store: %w", err)
	}

	registry := tools.NewRegistry()
	if err := std.RegisterAll(registry, cat, res); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	coreState := state.NewCoreState(appCfg)
	coreState.SetCatalog(cat)
	coreState.SetReservations(res)
	coreState.SetToolsRegistry(registry)

	systemPrompt, err := resolveSystemPrompt(cfg, appCfg)
	if err != nil {
		return nil, err
	}

	maxRounds := appCfg.Agent.MaxToolRounds
	if cfg.MaxToolRounds > 0 {
		maxRounds = cfg.MaxToolRounds
	}

	emitter := events.NewChanEmitter(64)
	reactCycle := chain.NewReActCycle(
		modelRegistry,
		registry,
		appCfg.Models.DefaultChat,
		chain.CycleConfig{
			SystemPrompt:  systemPrompt,
			MaxToolRounds: maxRounds,
			ToolTimeout:   appCfg.Agent.ToolTimeout,
			AnswerMode:    appCfg.Agent.AnswerMode,
		},
		emitter,
	)

	utils.Info("agent initialized",
		"model", appCfg.Models.DefaultChat,
		"restaurants", cat.Len(),
		"max_tool_rounds", maxRounds,
	)

	return &Client{
		reactCycle:    reactCycle,
		modelRegistry: modelRegistry,
		toolsRegistry: registry,
		state:         coreState,
		config:        appCfg,
		emitter:       emitter,
	}, nil
}

// resolveSystemPrompt выбирает системный промпт: override из Config,
// файл из config.yaml, иначе встроенный.
func resolveSystemPrompt(cfg Config, appCfg *config.AppConfig) (string, error) {
	if cfg.SystemPrompt != "" {
		return cfg.SystemPrompt, nil
	}
	if appCfg.Agent.SystemPrompt != "" {
		data, err := os.ReadFile(appCfg.Agent.SystemPrompt)
		if err != nil {
			return "", fmt.Errorf("read system prompt file: %w", err)
		}
		return string(data), nil
	}
	return chain.DefaultSystemPrompt, nil
}

// Run выполняет один ход диалога и возвращает финальный текст.
//
// История диалога накапливается между вызовами: каждый следующий ход
// видит предыдущие вопросы, ответы и результаты инструментов.
func (c *Client) Run(ctx context.Context, query string) (string, error) {
	output, err := c.RunTurn(ctx, query)
	if err != nil {
		return "", err
	}
	return output.Result, nil
}

// RunTurn выполняет один ход диалога и возвращает полный результат
// прогона: текст, reasoning, число раундов и сигнал завершения.
func (c *Client) RunTurn(ctx context.Context, query string) (chain.CycleOutput, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	output, err := c.reactCycle.Execute(ctx, chain.CycleInput{
		Query:   query,
		History: c.state.GetHistory(),
	})
	if err != nil {
		utils.Error("turn failed", "error", err)
		return chain.CycleOutput{}, err
	}

	c.state.SetHistory(output.Messages)

	utils.Info("turn completed",
		"rounds", output.Rounds,
		"duration", output.Duration,
	)
	return output, nil
}

// Execute выполняет один ход с полным контролем над входом и доступом
// к reasoning, числу раундов и сигналу завершения.
//
// В отличие от Run, история состояния не обновляется автоматически.
func (c *Client) Execute(ctx context.Context, input chain.CycleInput) (chain.CycleOutput, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	return c.reactCycle.Execute(ctx, input)
}

// RegisterTool регистрирует дополнительный инструмент.
func (c *Client) RegisterTool(tool tools.Tool) error {
	return c.toolsRegistry.Register(tool)
}

// Subscribe возвращает подписку на события агента (для UI).
func (c *Client) Subscribe() events.Subscriber {
	return c.emitter.Subscribe()
}

// GetHistory возвращает копию истории диалога.
func (c *Client) GetHistory() []llm.Message {
	return c.state.GetHistory()
}

// ClearHistory очищает историю диалога.
func (c *Client) ClearHistory() {
	c.state.ClearHistory()
}

// GetState возвращает core состояние агента.
func (c *Client) GetState() *state.CoreState {
	return c.state
}

// GetConfig возвращает конфигурацию приложения.
func (c *Client) GetConfig() *config.AppConfig {
	return c.config
}

// GetModelRegistry возвращает реестр моделей.
func (c *Client) GetModelRegistry() *models.Registry {
	return c.modelRegistry
}

// GetToolsRegistry возвращает реестр инструментов.
func (c *Client) GetToolsRegistry() *tools.Registry {
	return c.toolsRegistry
}

// Close освобождает ресурсы агента.
func (c *Client) Close() {
	c.emitter.Close()
}
