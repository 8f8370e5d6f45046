// Package tui is the interactive terminal front end for the regime comparison.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/compare"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/store"
	"github.com/rgehrsitz/comparatrib/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	comparator *compare.Comparator
	store      store.Store

	formModel    *scenes.FormModel
	resultsModel *scenes.ResultsModel

	// status line, e.g. "Sessão salva"
	status string

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model; a nil store disables persistence
func NewModel(engine *calculation.Engine, st store.Store) Model {
	if st == nil {
		st = store.NopStore{}
	}
	return Model{
		currentScene: SceneForm,
		comparator:   compare.NewComparator(engine),
		store:        st,
		formModel:    scenes.NewFormModel(),
		resultsModel: scenes.NewResultsModel(),
		width:        80,
		height:       24,
	}
}

// WithDefaultPeriod returns the model with the form's blank-period default set to p
func (m Model) WithDefaultPeriod(p domain.Period) Model {
	m.formModel.SetDefaultPeriod(p)
	return m
}

// Init loads the previous session (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadSessionCmd(m.store)
}

func loadSessionCmd(st store.Store) tea.Cmd {
	return func() tea.Msg {
		state, err := st.Load(context.Background())
		if errors.Is(err, store.ErrNoSession) {
			return SessionLoadedMsg{}
		}
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SessionLoadedMsg{State: state}
	}
}

// compareCmd runs the comparison off the update loop
func compareCmd(c *compare.Comparator, input domain.CalculationInput) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Compare(context.Background(), input, compare.Options{ExcludeIneligible: true})
		return ComparisonCompleteMsg{Input: input, Result: result, Err: err}
	}
}

func saveSessionCmd(st store.Store, input domain.CalculationInput, result *domain.ComparisonResult) tea.Cmd {
	return func() tea.Msg {
		err := st.Save(context.Background(), &store.AppState{Input: input, Result: result})
		return SessionSavedMsg{Err: err}
	}
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneForm:
		return "Dados da empresa"
	case SceneResults:
		return "Comparativo"
	case SceneHelp:
		return "Ajuda"
	default:
		return "Desconhecido"
	}
}
