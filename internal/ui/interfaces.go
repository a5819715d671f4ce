package ui

import (
	"crossword/internal/puzzle"
	"crossword/internal/solve"
)

// Controller receives user intent from the view. Calls arrive in input
// order on a single goroutine while the program runs.
type Controller interface {
	OnKey(key string, shift bool)
	OnText(data string)
	OnCellClick(row, col int)
	OnClueClick(number int, dir puzzle.Direction)
	OnCheck(scope solve.Scope)
	OnReveal(scope solve.Scope)
	OnRestart()
	OnTogglePause()
	OnPlay()
	OnStyleChanged(variant string)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetPuzzle(ix *puzzle.Index)
	SetBoard(v solve.View)
	SetStyleVariant(variant string)
	FlashStatus(msg string)
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutWide:
		return "wide"
	case LayoutCompact:
		return "compact"
	default:
		return "too_small"
	}
}
