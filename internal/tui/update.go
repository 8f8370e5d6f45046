package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/comparatrib/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.formModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case SessionLoadedMsg:
		if msg.State != nil {
			m.formModel.SetInput(msg.State.Input)
			m.resultsModel.SetResult(msg.State.Result)
			m.status = "Sessão anterior carregada"
		}
		return m, nil

	case tuimsg.SubmitMsg:
		m.loading = true
		m.loadingMessage = "Calculando..."
		return m, compareCmd(m.comparator, msg.Input)

	case ComparisonCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.resultsModel.SetResult(msg.Result)
		m.previousScene = m.currentScene
		m.currentScene = SceneResults
		return m, saveSessionCmd(m.store, msg.Input, msg.Result)

	case SessionSavedMsg:
		if msg.Err != nil {
			m.status = "Falha ao salvar sessão: " + msg.Err.Error()
		} else {
			m.status = "Sessão salva"
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		// any key dismisses the error
		m.err = nil
		if msg.String() != "ctrl+c" {
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.currentScene != SceneForm || !m.formModel.Editing() {
			return m, tea.Quit
		}

	case "?":
		if m.currentScene != SceneHelp {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneHelp} }
		}

	case "esc":
		if m.currentScene != SceneForm {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneForm} }
		}

	case "r":
		if m.currentScene == SceneForm && !m.formModel.Editing() && m.resultsModel.Result() != nil {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneResults} }
		}
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.currentScene {
	case SceneForm:
		updated, cmd := m.formModel.Update(msg)
		m.formModel = updated
		return m, cmd
	case SceneResults:
		updated, cmd := m.resultsModel.Update(msg)
		m.resultsModel = updated
		return m, cmd
	}
	return m, nil
}
