package tui

import (
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/store"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneForm Scene = iota
	SceneResults
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// SessionLoadedMsg carries the state saved by a previous run; State is nil when there is none
type SessionLoadedMsg struct {
	State *store.AppState
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Input  domain.CalculationInput
	Result *domain.ComparisonResult
	Err    error
}

// SessionSavedMsg reports the outcome of saving the session
type SessionSavedMsg struct {
	Err error
}
