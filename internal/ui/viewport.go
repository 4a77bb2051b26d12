package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"
)

// ViewportManager — thread-safe вьюпорт с переносом строк.
//
// Хранит оригинальные строки без переноса: при изменении ширины окна
// контент переформатируется заново (reflow), а позиция скролла
// сохраняется. Если пользователь был внизу лога, он остаётся внизу.
type ViewportManager struct {
	viewport viewport.Model
	logLines []string
	mu       sync.RWMutex
}

// NewViewportManager создаёт менеджер с пустым логом.
func NewViewportManager() *ViewportManager {
	return &ViewportManager{
		viewport: viewport.New(0, 0),
		logLines: []string{},
	}
}

// HandleResize обрабатывает изменение размера окна.
//
// wasAtBottom вычисляется до смены высоты: иначе после уменьшения
// окна скролл "прилипает" не к той строке.
func (vm *ViewportManager) HandleResize(msg tea.WindowSizeMsg, headerHeight, footerHeight int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vpHeight := msg.Height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := msg.Width
	if vpWidth < 20 {
		vpWidth = 20
	}

	totalLinesBefore := vm.viewport.TotalLineCount()
	wasAtBottom := vm.viewport.YOffset+vm.viewport.Height >= totalLinesBefore

	vm.viewport.Height = vpHeight
	vm.viewport.Width = vpWidth

	vm.viewport.SetContent(vm.wrapAll(vpWidth))

	if wasAtBottom {
		vm.viewport.GotoBottom()
		return
	}
	maxOffset := vm.viewport.TotalLineCount() - vm.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if vm.viewport.YOffset > maxOffset {
		vm.viewport.YOffset = maxOffset
	}
}

// Append добавляет строку в лог и прокручивает вниз, если пользователь
// уже был внизу.
func (vm *ViewportManager) Append(content string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.logLines = append(vm.logLines, content)

	wasAtBottom := vm.viewport.YOffset+vm.viewport.Height >= vm.viewport.TotalLineCount()
	vm.viewport.SetContent(vm.wrapAll(vm.viewport.Width))
	if wasAtBottom {
		vm.viewport.GotoBottom()
	}
}

// wrapAll переформатирует весь лог под ширину. Вызывается под мьютексом.
func (vm *ViewportManager) wrapAll(width int) string {
	if width < 1 {
		return strings.Join(vm.logLines, "\n")
	}
	var wrapped []string
	for _, line := range vm.logLines {
		wrapped = append(wrapped, strings.Split(wrap.String(line, width), "\n")...)
	}
	return strings.Join(wrapped, "\n")
}

// Update передаёт событие вьюпорту (скролл мышью и клавишами).
func (vm *ViewportManager) Update(msg tea.Msg) tea.Cmd {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	var cmd tea.Cmd
	vm.viewport, cmd = vm.viewport.Update(msg)
	return cmd
}

// View рендерит вьюпорт.
func (vm *ViewportManager) View() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.viewport.View()
}

// Width возвращает текущую ширину вьюпорта.
func (vm *ViewportManager) Width() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.viewport.Width
}

// Dimensions возвращает текущие размеры вьюпорта.
func (vm *ViewportManager) Dimensions() (width, height int) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.viewport.Width, vm.viewport.Height
}

// Lines возвращает копию оригинальных строк лога (без переноса).
func (vm *ViewportManager) Lines() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	out := make([]string, len(vm.logLines))
	copy(out, vm.logLines)
	return out
}

// GotoBottom прокручивает лог вниз.
func (vm *ViewportManager) GotoBottom() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.viewport.GotoBottom()
}
