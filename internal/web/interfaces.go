package web

import (
	"crossword/internal/puzzle"
	"crossword/internal/solve"
)

// Backend is the running solve session plus the actions a browser may take.
type Backend interface {
	Puzzle() *puzzle.Index
	Board() solve.View
	Subscribe(l solve.Listener) func()

	OnKey(key string, shift bool)
	OnInput(data string, deleteBackward bool)
	OnCellClick(row, col int)
	OnClueClick(number int, dir puzzle.Direction)
	OnCheck(scope solve.Scope)
	OnReveal(scope solve.Scope)
	OnRestart()
	OnTogglePause()
	OnPlay()
}
