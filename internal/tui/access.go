package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rampup-app/rampup/internal/access"
	"github.com/rampup-app/rampup/internal/store"
)

type accessModel struct {
	store  *store.Store
	gate   *access.Gate
	width  int
	height int

	codes map[string]string // kind -> code

	lookupResult string
	lookupError  bool

	formActive bool
	form       *huh.Form

	formCode *string
}

func newAccessModel(s *store.Store) accessModel {
	code := ""
	return accessModel{
		store:    s,
		gate:     access.NewGate(s),
		formCode: &code,
	}
}

func (a *accessModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type accessDataMsg struct {
	codes map[string]string
}

func (a accessModel) refresh() tea.Cmd {
	return func() tea.Msg {
		codes, _ := a.store.GetScopeCodes(localScope)
		return accessDataMsg{codes: codes}
	}
}

func (a accessModel) update(msg tea.Msg) (accessModel, tea.Cmd) {
	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case accessDataMsg:
		a.codes = msg.codes
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.New):
			return a.rotate(store.CodeKindPrivate)
		case key.Matches(msg, keys.Public):
			return a.rotate(store.CodeKindPublic)
		case key.Matches(msg, keys.Enter):
			return a.showLookupForm()
		}
	}
	return a, nil
}

// rotate issues a fresh code for one kind. Any previously shared code
// of that kind stops working immediately.
func (a accessModel) rotate(kind string) (accessModel, tea.Cmd) {
	code, err := a.gate.Rotate(localScope, kind)
	if err != nil {
		return a, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return a, tea.Batch(
		a.refresh(),
		func() tea.Msg { return statusMsg{text: "New " + kind + " code: " + code} },
	)
}

func (a accessModel) showLookupForm() (accessModel, tea.Cmd) {
	*a.formCode = ""
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Access code (Y3-XXXXX)").Value(a.formCode),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a accessModel) updateForm(msg tea.Msg) (accessModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		grant, err := a.gate.Resolve(strings.TrimSpace(*a.formCode))
		if err != nil {
			a.lookupResult = "Unknown code"
			a.lookupError = true
		} else {
			perm := "read-only"
			if grant.CanEdit {
				perm = "full access"
			}
			a.lookupResult = fmt.Sprintf("Scope %q, %s", grant.Scope, perm)
			a.lookupError = false
		}
		return a, nil
	}

	return a, cmd
}

func (a accessModel) view() string {
	w := a.width - 4

	if a.formActive && a.form != nil {
		title := titleStyle.Render("Check Access Code")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", a.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Access Codes")

	private := mutedStyle.Render("not issued")
	if c, ok := a.codes[store.CodeKindPrivate]; ok {
		private = highlightStyle.Render(c)
	}
	public := mutedStyle.Render("not issued")
	if c, ok := a.codes[store.CodeKindPublic]; ok {
		public = highlightStyle.Render(c)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render("Private (edit)"), private))
	rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render("Public (read-only)"), public))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Share the public code for viewing, keep the private one to yourself."))

	if a.lookupResult != "" {
		rows = append(rows, "")
		if a.lookupError {
			rows = append(rows, errorStyle.Render("  "+a.lookupResult))
		} else {
			rows = append(rows, successStyle.Render("  "+a.lookupResult))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new private code  g: new public code  enter: check a code"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
