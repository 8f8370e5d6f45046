package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneForm:
		content = m.formModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Tela desconhecida"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(0, m.height-4) // title (2) + status (1) + padding (1)

	contentContainer := lipgloss.NewStyle().
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		contentContainer,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("Comparatrib - Comparativo de Regimes Tributários"),
		SubtitleStyle.Render(m.currentScene.String()),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("enter", "calcular"),
		formatShortcut("r", "resultado"),
		formatShortcut("esc", "voltar"),
		formatShortcut("?", "ajuda"),
		formatShortcut("q", "sair"),
	}

	statusText := strings.Join(shortcuts, " • ")
	if m.status != "" {
		width := m.width - lipgloss.Width(statusText) - lipgloss.Width(m.status) - 4
		statusText = statusText + strings.Repeat(" ", max(1, width)) + m.status
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Carregando..."
	}
	return m.renderApp(BorderStyle.Render(fmt.Sprintf("⠋ %s", message)))
}

func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Erro: %s\n\nPressione qualquer tecla para continuar...", m.err.Error()),
	)
	return m.renderApp(content)
}

func (m Model) renderHelp() string {
	keys := [][2]string{
		{"tab / ↓", "próximo campo"},
		{"shift+tab / ↑", "campo anterior"},
		{"enter", "calcular e salvar a sessão"},
		{"r", "ver o último resultado"},
		{"esc", "voltar ao formulário"},
		{"q / ctrl+c", "sair (q é digitado nos campos de texto)"},
	}
	var sb strings.Builder
	sb.WriteString("Compara Simples Nacional, Lucro Presumido e Lucro Real\n")
	sb.WriteString("para o mesmo período e aponta a opção mais barata.\n\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s  %s\n", HelpKeyStyle.Render(fmt.Sprintf("%-14s", k[0])), HelpDescStyle.Render(k[1])))
	}
	return BorderStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
