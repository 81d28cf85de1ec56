package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/kinelab/internal/demo"
)

const (
	stateMenu = iota
	stateSim
)

// Factory builds the live model for a named demo.
type Factory func(name string) (Model, error)

// App is the demo picker in front of the live model.
type App struct {
	state, cursor int
	names         []string
	titles        map[string]string
	factory       Factory
	live          Model
	err           error
	width, height int
}

func NewApp(reg *demo.Registry, factory Factory) *App {
	a := &App{
		names:   reg.Names(),
		titles:  make(map[string]string),
		factory: factory,
	}
	for _, name := range a.names {
		if def, err := reg.Get(name); err == nil {
			a.titles[name] = def.Title
		}
	}
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = size.Width, size.Height
	}
	if a.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.state = stateMenu
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.names)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a, a.start(a.names[a.cursor])
	}
	return a, nil
}

func (a *App) start(name string) tea.Cmd {
	live, err := a.factory(name)
	if err != nil {
		a.err = err
		return nil
	}
	a.err = nil
	if a.width > 0 {
		next, _ := live.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		live = next.(Model)
	}
	a.live, a.state = live, stateSim
	return live.Init()
}

func (a *App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}

	var b strings.Builder
	sel := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	b.WriteString("\n\n    " + TitleStyle.Render("KINELAB") + "\n    " + Subtle.Render("interactive physics demos") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range a.names {
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", TitleStyle.Render("▸"), sel.Render(fmt.Sprintf("%-10s", name)), desc.Render(a.titles[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", Subtle.Render(fmt.Sprintf("%-10s", name)), Subtle.Render(a.titles[name])))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + SparkLow.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHint.Render("j/k navigate  enter select  esc back  q quit") + "\n")
	return b.String()
}

// Run starts a program with mouse reporting on the alternate screen.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
