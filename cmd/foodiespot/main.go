/*
FoodieSpot Chat - диалоговый агент для поиска ресторанов и бронирования
TUI интерфейс на Bubble Tea
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foodiespot/foodiespot-ai/internal/ui"
	"github.com/foodiespot/foodiespot-ai/pkg/agent"
	"github.com/foodiespot/foodiespot-ai/pkg/events"
	"github.com/foodiespot/foodiespot-ai/pkg/utils"
)

// teaMsg типы для коммуникации
type answerMsg struct {
	text      string
	reasoning string
}
type errorMsg struct{ err error }
type agentEventMsg struct{ event events.Event }
type eventsClosedMsg struct{}

// chatModel - TUI модель чата
type chatModel struct {
	textarea textarea.Model
	log      *ui.ViewportManager
	spinner  spinner.Model

	ctx        context.Context
	client     *agent.Client
	subscriber events.Subscriber
	modelName  string

	loading bool
	ready   bool
}

func initialModel(ctx context.Context, client *agent.Client) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about FoodieSpot restaurants or make a reservation..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.SetHeight(3)
	ta.CharLimit = 1000
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter отправляет

	vp := ui.NewViewportManager()
	vp.Append(ui.SystemMsgStyle("🍽  FoodieSpot Assistant"))
	vp.Append(ui.SystemMsgStyle("Напишите сообщение и нажмите Enter. Ctrl+C или Esc для выхода."))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		textarea:   ta,
		log:        vp,
		spinner:    sp,
		ctx:        ctx,
		client:     client,
		subscriber: client.Subscribe(),
		modelName:  client.GetConfig().Models.DefaultChat,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, listenEventsCmd(m.subscriber))
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	vpCmd = m.log.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := m.textarea.Height() + 2
		m.log.HandleResize(msg, headerHeight, footerHeight)
		m.textarea.SetWidth(msg.Width)
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textarea.Value()
			if input == "" || m.loading {
				return m, nil
			}
			m.textarea.Reset()
			m.log.Append(ui.UserMsgStyle("Вы: ") + input)
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, runTurnCmd(m.ctx, m.client, input))
		case tea.KeyCtrlU:
			m.textarea.Reset()
			return m, nil
		}

	case agentEventMsg:
		m.handleEvent(msg.event)
		return m, tea.Batch(tiCmd, vpCmd, listenEventsCmd(m.subscriber))

	case eventsClosedMsg:
		return m, nil

	case answerMsg:
		m.loading = false
		if msg.reasoning != "" {
			m.log.Append(ui.ThinkingStyle("🧠 " + truncate(msg.reasoning, 200)))
		}
		m.log.Append(ui.SystemMsgStyle("FoodieSpot: ") + msg.text)

	case errorMsg:
		m.loading = false
		m.log.Append(ui.ErrorMsgStyle("❌ Ошибка: ") + msg.err.Error())
	}

	if m.loading {
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, spCmd)
	}
	return m, tea.Batch(tiCmd, vpCmd)
}

// handleEvent показывает ход работы агента: вызовы инструментов и их
// результаты. Финальный ответ приходит отдельным answerMsg, поэтому
// EventDone здесь не отображается.
func (m *chatModel) handleEvent(event events.Event) {
	switch data := event.Data.(type) {
	case events.ToolCallData:
		m.log.Append(ui.ToolMsgStyle(fmt.Sprintf("⚙ %s(%s)", data.ToolName, data.Args)))
	case events.ToolResultData:
		m.log.Append(ui.ToolMsgStyle(fmt.Sprintf("  ↳ %s [%s]", truncate(data.Result, 120), data.Duration)))
	case events.ErrorData:
		m.log.Append(ui.ErrorMsgStyle("⚠ ") + data.Err.Error())
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing UI..."
	}

	status := fmt.Sprintf(" FOODIESPOT | MODEL: %s ", m.modelName)
	header := ui.HeaderStyle.Width(m.log.Width()).Render(status)
	border := ui.BorderStyle.Width(m.log.Width()).Render("──────────────────────────────────────────────────")

	view := fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		m.log.View(),
		border,
		m.textarea.View(),
	)

	if m.loading {
		view += "\n" + m.spinner.View() + " Думаю..."
	}
	return view
}

// runTurnCmd выполняет один ход диалога. Контекст отменяется по
// SIGINT/SIGTERM, чтобы прервать обращения к LLM при завершении.
func runTurnCmd(ctx context.Context, client *agent.Client, query string) tea.Cmd {
	return func() tea.Msg {
		output, err := client.RunTurn(ctx, query)
		if err != nil {
			return errorMsg{err: err}
		}
		return answerMsg{text: output.Result, reasoning: output.Reasoning}
	}
}

// listenEventsCmd читает одно событие из подписки.
func listenEventsCmd(sub events.Subscriber) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return eventsClosedMsg{}
		}
		return agentEventMsg{event: event}
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "путь к конфигурационному файлу")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		log.Printf("логгер не инициализирован: %v", err)
	}
	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	client, err := agent.New(ctx, agent.Config{ConfigPath: *configPath})
	if err != nil {
		log.Fatalf("Ошибка инициализации агента: %v", err)
	}
	defer client.Close()

	p := tea.NewProgram(
		initialModel(ctx, client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		log.Fatalf("Ошибка запуска TUI: %v", err)
	}
}
