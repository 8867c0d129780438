package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kbukum/searchlab/query"
	"github.com/kbukum/searchlab/search"
	"github.com/kbukum/searchlab/strategy"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	itemStyle    = lipgloss.NewStyle().Bold(true)
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(2)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Underline(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	resultsStyle = lipgloss.NewStyle().MarginTop(1).MarginBottom(1)
)

// stateMsg carries a published pipeline state into the UI.
type stateMsg search.State

// relay hands states from the scheduler goroutine to the UI. publish never
// blocks: when the UI falls behind, the oldest unread state is dropped.
type relay struct {
	ch chan search.State
}

func newRelay(size int) *relay {
	return &relay{ch: make(chan search.State, size)}
}

func (r *relay) publish(s search.State) {
	for {
		select {
		case r.ch <- s:
			return
		default:
		}
		select {
		case <-r.ch:
		default:
		}
	}
}

func (r *relay) next() tea.Msg {
	return stateMsg(<-r.ch)
}

// pager is the page navigation the pipeline offers.
type pager interface {
	NextPage() bool
	PrevPage() bool
}

// model is the terminal UI. It never touches the source or the pipeline
// directly: every mutation is posted to the scheduler.
type model struct {
	post     func(func())
	src      *query.Source
	pages    pager
	states   *relay
	strategy strategy.Kind
	minTerm  int

	input textinput.Model
	spin  spinner.Model
	state search.State
}

func newModel(post func(func()), src *query.Source, pages pager, states *relay, kind strategy.Kind, minTerm int) model {
	in := textinput.New()
	in.Placeholder = "search the catalog, e.g. rxjs or angular"
	in.Prompt = "› "
	in.CharLimit = 64
	in.Focus()

	return model{
		post:     post,
		src:      src,
		pages:    pages,
		states:   states,
		strategy: kind,
		minTerm:  minTerm,
		input:    in,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		state:    search.State{Page: 1, TotalPages: 1, Filter: search.FilterAll},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.states.next)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			src := m.src
			m.post(func() { src.SetFilter(src.Current().Filter.Next()) })
			return m, nil
		case "ctrl+n":
			m.post(func() { m.pages.NextPage() })
			return m, nil
		case "ctrl+p":
			m.post(func() { m.pages.PrevPage() })
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if term := m.input.Value(); term != before {
			src := m.src
			m.post(func() { src.SetTerm(term) })
		}
		return m, cmd

	case stateMsg:
		wasLoading := m.state.Loading
		m.state = search.State(msg)
		cmds := []tea.Cmd{m.states.next}
		if m.state.Loading && !wasLoading {
			cmds = append(cmds, m.spin.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("searchlab"))
	b.WriteString(subtleStyle.Render("  strategy: " + string(m.strategy)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.filterBar())
	b.WriteString("\n")
	b.WriteString(resultsStyle.Render(m.body()))
	b.WriteString("\n")
	b.WriteString(m.pagerLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type to search • tab filter • ctrl+n/ctrl+p page • esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) filterBar() string {
	modes := []search.FilterMode{search.FilterAll, search.FilterTitle, search.FilterDescription}
	parts := make([]string, len(modes))
	for i, mode := range modes {
		if mode == m.state.Filter {
			parts[i] = activeStyle.Render(mode.String())
		} else {
			parts[i] = subtleStyle.Render(mode.String())
		}
	}
	return subtleStyle.Render("filter: ") + strings.Join(parts, " ")
}

func (m model) body() string {
	s := m.state
	var lines []string
	switch {
	case s.Loading:
		lines = append(lines, m.spin.View()+" Searching…")
	case s.Error != "":
		lines = append(lines, errorStyle.Render(s.Error))
	case len([]rune(strings.TrimSpace(m.input.Value()))) < m.minTerm:
		lines = append(lines, subtleStyle.Render(fmt.Sprintf("Type at least %d characters.", m.minTerm)))
	case s.Total == 0:
		lines = append(lines, subtleStyle.Render("No results."))
	default:
		lines = append(lines, subtleStyle.Render(fmt.Sprintf("%d results", s.Total)))
	}
	for _, it := range s.Results {
		lines = append(lines, itemStyle.Render(it.Title), descStyle.Render(it.Description))
	}
	return strings.Join(lines, "\n")
}

func (m model) pagerLine() string {
	s := m.state
	prev, next := subtleStyle.Render("‹ prev"), subtleStyle.Render("next ›")
	if s.HasPrev {
		prev = activeStyle.Render("‹ prev")
	}
	if s.HasNext {
		next = activeStyle.Render("next ›")
	}
	return fmt.Sprintf("%s  page %d/%d  %s", prev, s.Page, s.TotalPages, next)
}
