package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models       ModelsConfig       `yaml:"models"`
	Agent        AgentConfig        `yaml:"agent"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Reservations ReservationsConfig `yaml:"reservations"`
	S3           S3Config           `yaml:"s3"`
	App          AppSpecific        `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас модели по умолчанию
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "groq", "ollama" и т.д.
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL     string        `yaml:"base_url"`   // Для OpenAI-совместимых API
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`    // Go умеет парсить строки вида "60s", "1m"
	RateLimit   int           `yaml:"rate_limit"` // Запросов в минуту (0 = без лимита)
}

// AgentConfig — настройки диалогового агента.
type AgentConfig struct {
	// MaxToolRounds — бюджет раундов инструментов на один запрос пользователя
	MaxToolRounds int `yaml:"max_tool_rounds"`

	// AnswerMode — режим финального ответа: "loop" или "responder"
	AnswerMode string `yaml:"answer_mode"`

	// SystemPrompt — путь к файлу системного промпта (пусто = встроенный)
	SystemPrompt string `yaml:"system_prompt"`

	// ToolTimeout — таймаут выполнения одного инструмента
	ToolTimeout time.Duration `yaml:"tool_timeout"`
}

// CatalogConfig — источник каталога ресторанов.
type CatalogConfig struct {
	Source string `yaml:"source"` // "file" или "s3"
	Path   string `yaml:"path"`   // Путь к JSON файлу (source: file)
	Bucket string `yaml:"bucket"` // Бакет (source: s3)
	Key    string `yaml:"key"`    // Ключ объекта (source: s3)
}

// ReservationsConfig — хранилище броней.
type ReservationsConfig struct {
	Path string `yaml:"path"` // Путь к JSON файлу снапшота
}

// S3Config — настройки объектного хранилища.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug bool `yaml:"debug"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat == "" {
		return fmt.Errorf("models.default_chat is required")
	}
	if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
		return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
	}

	switch c.Catalog.Source {
	case "", "file":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for file source")
		}
	case "s3":
		if c.Catalog.Bucket == "" || c.Catalog.Key == "" {
			return fmt.Errorf("catalog.bucket and catalog.key are required for s3 source")
		}
		if c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required for s3 catalog source")
		}
	default:
		return fmt.Errorf("catalog.source must be 'file' or 's3', got '%s'", c.Catalog.Source)
	}

	switch c.Agent.AnswerMode {
	case "", "loop", "responder":
	default:
		return fmt.Errorf("agent.answer_mode must be 'loop' or 'responder', got '%s'", c.Agent.AnswerMode)
	}

	if c.Agent.MaxToolRounds < 0 {
		return fmt.Errorf("agent.max_tool_rounds must be non-negative")
	}

	return nil
}

// GetChatModel возвращает конфигурацию модели по имени
// (или модель по умолчанию при пустом имени).
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}
