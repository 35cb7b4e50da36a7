package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/slotbridge/boundary"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/scene"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// chrome is the number of lines around the tree viewport.
const chrome = 6

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse a scene interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			world, err := a.loadScene()
			if err != nil {
				return err
			}
			defer world.Close()

			surface := boundary.New(world, boundary.WithLogger(a.log))
			p := tea.NewProgram(newBrowseModel(world, surface, a.cfg.Scene), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type browseState int

const (
	stateNavigate browseState = iota
	stateFind
	stateRename
)

type row struct {
	h           handle.Handle
	depth       int
	hasChildren bool
}

type browseModel struct {
	err      error
	world    *scene.World
	surface  *boundary.Surface
	expanded map[handle.Handle]bool
	filename string
	status   string
	rows     []row
	input    textinput.Model
	view     viewport.Model
	cursor   int
	state    browseState
}

func newBrowseModel(world *scene.World, surface *boundary.Surface, filename string) *browseModel {
	ti := textinput.New()
	ti.Width = 40

	m := &browseModel{
		world:    world,
		surface:  surface,
		filename: filename,
		expanded: map[handle.Handle]bool{surface.RootSlot(): true},
		input:    ti,
		view:     viewport.New(80, 20),
	}
	m.rebuild()
	return m
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

// rebuild flattens the expanded part of the tree into rows.
func (m *browseModel) rebuild() {
	m.rows = m.rows[:0]
	var walk func(h handle.Handle, depth int)
	walk = func(h handle.Handle, depth int) {
		n, _ := m.surface.SlotGetNumChildren(h)
		m.rows = append(m.rows, row{h: h, depth: depth, hasChildren: n > 0})
		if !m.expanded[h] {
			return
		}
		children, _ := m.surface.SlotGetChildren(h)
		for _, c := range children {
			walk(c, depth+1)
		}
	}
	walk(m.surface.RootSlot(), 0)
	m.cursor = min(m.cursor, len(m.rows)-1)
	m.refresh()
}

func (m *browseModel) selected() handle.Handle {
	return m.rows[m.cursor].h
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-chrome, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state != stateNavigate {
			return m.updateInput(msg)
		}
		return m.updateNavigate(msg)
	}
	return m, nil
}

func (m *browseModel) updateNavigate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "right", "l":
		if r := m.rows[m.cursor]; r.hasChildren && !m.expanded[r.h] {
			m.expanded[r.h] = true
			m.rebuild()
		}

	case "left", "h":
		r := m.rows[m.cursor]
		if m.expanded[r.h] {
			delete(m.expanded, r.h)
			m.rebuild()
			break
		}
		if parent, _ := m.surface.SlotGetParent(r.h); !parent.IsNull() {
			m.selectHandle(parent)
		}

	case "enter", " ":
		r := m.rows[m.cursor]
		if m.expanded[r.h] {
			delete(m.expanded, r.h)
		} else if r.hasChildren {
			m.expanded[r.h] = true
		}
		m.rebuild()

	case "/":
		m.beginInput(stateFind, "", "find: ")

	case "r":
		name, err := m.surface.SlotGetName(m.selected())
		if err != nil {
			m.err = err
			break
		}
		m.beginInput(stateRename, name, "rename: ")
	}
	m.refresh()
	return m, nil
}

func (m *browseModel) beginInput(state browseState, value, prompt string) {
	m.state = state
	m.err = nil
	m.status = ""
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *browseModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.endInput()
		return m, nil
	case "enter":
		value := m.input.Value()
		state := m.state
		m.endInput()
		if state == stateFind {
			m.find(value)
		} else {
			m.rename(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *browseModel) endInput() {
	m.state = stateNavigate
	m.input.Blur()
}

// find selects the first slot under the root whose name contains query,
// ignoring case, expanding its ancestors.
func (m *browseModel) find(query string) {
	h, err := m.surface.SlotFindChildByName(m.surface.RootSlot(), query, true, true, -1)
	if err != nil {
		m.err = err
		return
	}
	if h.IsNull() {
		m.status = fmt.Sprintf("no slot matches %q", query)
		return
	}
	for p, _ := m.surface.SlotGetParent(h); !p.IsNull(); p, _ = m.surface.SlotGetParent(p) {
		m.expanded[p] = true
	}
	m.rebuild()
	m.selectHandle(h)
	name, _ := m.surface.SlotGetName(h)
	m.status = "found " + name
}

func (m *browseModel) rename(name string) {
	h := m.selected()
	if err := m.surface.SlotSetName(h, name); err != nil {
		m.err = err
		return
	}
	m.status = "renamed to " + name
	m.refresh()
}

func (m *browseModel) selectHandle(h handle.Handle) {
	for i, r := range m.rows {
		if r.h == h {
			m.cursor = i
			break
		}
	}
	m.refresh()
}

// refresh re-renders the rows and keeps the cursor inside the viewport.
func (m *browseModel) refresh() {
	lines := make([]string, len(m.rows))
	for i, r := range m.rows {
		marker := "  "
		if r.hasChildren {
			marker = "▸ "
			if m.expanded[r.h] {
				marker = "▾ "
			}
		}
		name, err := m.surface.SlotGetName(r.h)
		if err != nil {
			name = "<invalid>"
		}
		line := strings.Repeat("  ", r.depth) + marker + name + " " + r.h.String()
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		lines[i] = line
	}
	m.view.SetContent(strings.Join(lines, "\n"))

	if m.cursor < m.view.YOffset {
		m.view.SetYOffset(m.cursor)
	} else if m.cursor >= m.view.YOffset+m.view.Height {
		m.view.SetYOffset(m.cursor - m.view.Height + 1)
	}
}

// details describes the selected slot's components.
func (m *browseModel) details() string {
	comps, err := m.surface.SlotGetComponents(m.selected())
	if err != nil || len(comps) == 0 {
		return helpStyle.Render("no components")
	}
	names := make([]string, 0, len(comps))
	for _, c := range comps {
		if n, err := m.surface.ComponentGetTypeName(c); err == nil {
			names = append(names, compStyle.Render(n))
		}
	}
	return strings.Join(names, ", ")
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Scene"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")
	b.WriteString(m.view.View())
	b.WriteString("\n\n")
	b.WriteString(m.details())
	b.WriteString("\n")

	switch {
	case m.state != stateNavigate:
		b.WriteString(m.input.View())
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	default:
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.state == stateNavigate {
		b.WriteString(helpStyle.Render("↑/↓ move • ←/→ collapse/expand • / find • r rename • q quit"))
	} else {
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	}
	return b.String()
}
