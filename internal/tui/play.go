// Package tui plays back a solved record as a terminal animation. Strictly
// a consumer: it reads frames from the record and never touches the solver.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dverbeek/advect/internal/ode"
	"github.com/dverbeek/advect/internal/viz"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type TickMsg time.Time

type Player struct {
	rec      *ode.Record
	idx      int
	playing  bool
	fps      int
	min, max float64
	width    int
	height   int
}

func NewPlayer(rec *ode.Record, fps int) Player {
	if fps < 1 {
		fps = 20
	}
	min, max := viz.Range(rec)
	return Player{
		rec:     rec,
		playing: true,
		fps:     fps,
		min:     min,
		max:     max,
		width:   40,
		height:  20,
	}
}

func (p Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (p Player) Init() tea.Cmd {
	return p.tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if p.playing && p.rec.Len() > 0 {
			p.idx = (p.idx + 1) % p.rec.Len()
		}
		return p, p.tick()

	case tea.WindowSizeMsg:
		p.width = (msg.Width - 4) / 2
		p.height = msg.Height - 5
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ":
			p.playing = !p.playing
		case "left", "h":
			p.playing = false
			if p.idx > 0 {
				p.idx--
			}
		case "right", "l":
			p.playing = false
			if p.idx < p.rec.Len()-1 {
				p.idx++
			}
		case "0":
			p.idx = 0
		}
	}
	return p, nil
}

func (p Player) View() string {
	if p.rec.Len() == 0 {
		return "empty record\n"
	}
	t := p.rec.Time(p.idx)
	head := titleStyle.Render("transport playback") + "  " +
		infoStyle.Render(fmt.Sprintf("frame %d/%d  t=%.3f", p.idx+1, p.rec.Len(), t))
	body := viz.Heatmap(p.rec.Frame(p.idx), p.width, p.height, p.min, p.max)
	help := helpStyle.Render("space pause · ←/→ scrub · 0 rewind · q quit")
	return head + "\n" + body + help + "\n"
}

// Run plays the record until the user quits.
func Run(rec *ode.Record, fps int) error {
	prog := tea.NewProgram(NewPlayer(rec, fps), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
