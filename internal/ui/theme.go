package ui

import "charm.land/lipgloss/v2"

const (
	StyleValentine = "valentine"
	StyleNewsprint = "newsprint"
	StyleRetro     = "retro_terminal"
)

// StyleVariants is the order the theme key cycles through.
var StyleVariants = []string{StyleValentine, StyleNewsprint, StyleRetro}

func ValidStyleVariant(variant string) bool {
	for _, v := range StyleVariants {
		if v == variant {
			return true
		}
	}
	return false
}

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	ClueBar     lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	Accent      lipgloss.Style
	Pass        lipgloss.Style
	Fail        lipgloss.Style
	Muted       lipgloss.Style

	CellEmpty     lipgloss.Style
	CellBlocked   lipgloss.Style
	CellActive    lipgloss.Style
	CellWord      lipgloss.Style
	CellIncorrect lipgloss.Style
	CellRevealed  lipgloss.Style
	CellSolved    lipgloss.Style
}

func DefaultTheme() Theme {
	return ThemeForVariant(StyleValentine)
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case StyleNewsprint:
		return newsprintTheme()
	case StyleRetro:
		return retroTerminalTheme()
	default:
		return valentineTheme()
	}
}

func valentineTheme() Theme {
	rose := lipgloss.Color("#FF6F91")
	blush := lipgloss.Color("#FFD1DC")
	wine := lipgloss.Color("#3A0F1F")
	plum := lipgloss.Color("#5A1E3A")
	paper := lipgloss.Color("#FFF7F9")
	ink := lipgloss.Color("#1E1216")
	gold := lipgloss.Color("#FFC857")
	mint := lipgloss.Color("#67F0A8")
	sky := lipgloss.Color("#A7D8FF")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(wine).
			Foreground(paper).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(plum).
			Foreground(paper).
			Padding(0, 1),
		ClueBar: lipgloss.NewStyle().
			Foreground(rose).
			Bold(true).
			Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(rose).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(plum),
		PanelBody:   lipgloss.NewStyle().Foreground(paper),
		Accent:      lipgloss.NewStyle().Foreground(rose).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(mint).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4D")).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#B799A4")),

		CellEmpty:     lipgloss.NewStyle().Background(paper).Foreground(ink),
		CellBlocked:   lipgloss.NewStyle().Foreground(wine),
		CellActive:    lipgloss.NewStyle().Background(gold).Foreground(ink).Bold(true),
		CellWord:      lipgloss.NewStyle().Background(blush).Foreground(ink),
		CellIncorrect: lipgloss.NewStyle().Background(lipgloss.Color("#FF4D4D")).Foreground(paper).Bold(true),
		CellRevealed:  lipgloss.NewStyle().Background(sky).Foreground(ink),
		CellSolved:    lipgloss.NewStyle().Background(mint).Foreground(ink),
	}
}

func newsprintTheme() Theme {
	paper := lipgloss.Color("#F4F1EA")
	ink := lipgloss.Color("#1A1A1A")
	slate := lipgloss.Color("#30394A")
	grey := lipgloss.Color("#D9D4C7")
	honey := lipgloss.Color("#F2B872")
	sage := lipgloss.Color("#80C4A3")
	rose := lipgloss.Color("#D17A86")
	sky := lipgloss.Color("#86B6F6")

	return Theme{
		Header:      lipgloss.NewStyle().Background(ink).Foreground(paper).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(slate).Foreground(paper).Padding(0, 1),
		ClueBar:     lipgloss.NewStyle().Foreground(honey).Bold(true).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(slate),
		PanelBody:   lipgloss.NewStyle().Foreground(paper),
		Accent:      lipgloss.NewStyle().Foreground(sky).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(sage).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(rose).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),

		CellEmpty:     lipgloss.NewStyle().Background(paper).Foreground(ink),
		CellBlocked:   lipgloss.NewStyle().Foreground(ink),
		CellActive:    lipgloss.NewStyle().Background(honey).Foreground(ink).Bold(true),
		CellWord:      lipgloss.NewStyle().Background(grey).Foreground(ink),
		CellIncorrect: lipgloss.NewStyle().Background(rose).Foreground(paper).Bold(true),
		CellRevealed:  lipgloss.NewStyle().Background(sky).Foreground(ink),
		CellSolved:    lipgloss.NewStyle().Background(sage).Foreground(ink),
	}
}

func retroTerminalTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		ClueBar:     lipgloss.NewStyle().Foreground(amber).Bold(true).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(forest),
		PanelBody:   lipgloss.NewStyle().Foreground(glow),
		Accent:      lipgloss.NewStyle().Foreground(lime).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(red).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),

		CellEmpty:     lipgloss.NewStyle().Foreground(glow),
		CellBlocked:   lipgloss.NewStyle().Foreground(forest),
		CellActive:    lipgloss.NewStyle().Background(amber).Foreground(deep).Bold(true),
		CellWord:      lipgloss.NewStyle().Background(forest).Foreground(glow),
		CellIncorrect: lipgloss.NewStyle().Background(red).Foreground(deep).Bold(true),
		CellRevealed:  lipgloss.NewStyle().Foreground(amber).Underline(true),
		CellSolved:    lipgloss.NewStyle().Foreground(lime).Bold(true),
	}
}
