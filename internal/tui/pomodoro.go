package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gen2brain/beeep"
	"github.com/rampup-app/rampup/internal/pomodoro"
	"github.com/rampup-app/rampup/internal/store"
)

var modeLabels = map[pomodoro.Mode]string{
	pomodoro.ModeWork:       "WORK",
	pomodoro.ModeShortBreak: "SHORT BREAK",
	pomodoro.ModeLongBreak:  "LONG BREAK",
}

type pomodoroModel struct {
	store  *store.Store
	width  int
	height int

	timer *pomodoro.Timer
}

func newPomodoroModel(s *store.Store) pomodoroModel {
	m := pomodoroModel{store: s}
	cfg := m.loadConfig()

	if snap, err := s.LoadPomodoroSnapshot(); err == nil && snap != nil {
		m.timer = pomodoro.Restore(cfg, pomodoro.Snapshot{
			Mode:             pomodoro.Mode(snap.Mode),
			Status:           pomodoro.Status(snap.Status),
			RemainingSeconds: snap.RemainingSeconds,
			CompletedCycles:  snap.CompletedCycles,
			LastUpdate:       snap.LastUpdate,
		}, time.Now())
	} else {
		m.timer = pomodoro.New(cfg)
	}
	return m
}

func (p *pomodoroModel) loadConfig() pomodoro.Config {
	cfg := pomodoro.DefaultConfig()
	cfg.Work = p.settingDuration("pomodoro_work", cfg.Work)
	cfg.ShortBreak = p.settingDuration("pomodoro_short_break", cfg.ShortBreak)
	cfg.LongBreak = p.settingDuration("pomodoro_long_break", cfg.LongBreak)
	if v, err := p.store.GetSetting("pomodoro_cycles"); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cycles = n
		}
	}
	return cfg
}

func (p *pomodoroModel) settingDuration(key string, fallback time.Duration) time.Duration {
	if v, err := p.store.GetSetting(key); err == nil {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

// reloadConfig picks up settings changes without disturbing a timer
// that is mid-countdown.
func (p *pomodoroModel) reloadConfig() {
	p.timer.SetConfig(p.loadConfig())
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) persist() {
	snap := p.timer.Snapshot(time.Now())
	p.store.SavePomodoroSnapshot(&store.PomodoroSnapshot{
		Mode:             string(snap.Mode),
		Status:           string(snap.Status),
		RemainingSeconds: snap.RemainingSeconds,
		CompletedCycles:  snap.CompletedCycles,
		LastUpdate:       snap.LastUpdate,
	})
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if p.timer.Status() != pomodoro.StatusRunning {
			return p, nil
		}
		event := p.timer.Tick()
		p.persist()
		switch event {
		case pomodoro.EventBreakStarted:
			return p, notifyCmd("زمان استراحت!", "یک بازه کاری تمام شد.")
		case pomodoro.EventWorkStarted:
			return p, notifyCmd("برگرد سر کار!", "استراحت تمام شد.")
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Pause):
			if p.timer.Status() == pomodoro.StatusRunning {
				p.timer.Pause()
			} else {
				p.timer.Start()
			}
			p.persist()
			return p, nil
		case key.Matches(msg, keys.Reset):
			p.timer.Reset()
			p.persist()
			return p, nil
		case key.Matches(msg, keys.Mode):
			p.timer.SetMode(nextMode(p.timer.Mode()))
			p.persist()
			return p, nil
		}
	}
	return p, nil
}

func nextMode(m pomodoro.Mode) pomodoro.Mode {
	switch m {
	case pomodoro.ModeWork:
		return pomodoro.ModeShortBreak
	case pomodoro.ModeShortBreak:
		return pomodoro.ModeLongBreak
	default:
		return pomodoro.ModeWork
	}
}

func notifyCmd(title, body string) tea.Cmd {
	return func() tea.Msg {
		beeep.Notify(title, body, "")
		return statusMsg{text: title}
	}
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	title := titleStyle.Render("Pomodoro")
	countdown := formatClock(p.timer.Remaining())

	var timeDisplay, modeLabel, statusLabel string
	switch p.timer.Mode() {
	case pomodoro.ModeWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(countdown)
		modeLabel = accentStyle.Bold(true).Render(modeLabels[pomodoro.ModeWork])
	case pomodoro.ModeShortBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(countdown)
		modeLabel = successStyle.Bold(true).Render(modeLabels[pomodoro.ModeShortBreak])
	case pomodoro.ModeLongBreak:
		timeDisplay = highlightStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(countdown)
		modeLabel = highlightStyle.Bold(true).Render(modeLabels[pomodoro.ModeLongBreak])
	}

	switch p.timer.Status() {
	case pomodoro.StatusRunning:
		statusLabel = successStyle.Render("● RUNNING")
	case pomodoro.StatusPaused:
		statusLabel = warningStyle.Render("⏸ PAUSED")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(countdown)
		statusLabel = mutedStyle.Render("■ STOPPED")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		modeLabel,
		statusLabel,
		"",
		p.renderCycles(),
	)

	controls := mutedStyle.Render("s/space: start/pause  x: reset  m: mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderCycles() string {
	cycles := p.timer.Config().Cycles
	done := p.timer.CompletedCycles() % cycles
	if done == 0 && p.timer.CompletedCycles() > 0 && p.timer.Mode() == pomodoro.ModeLongBreak {
		done = cycles
	}

	var parts []string
	for i := 0; i < cycles; i++ {
		if i < done {
			parts = append(parts, successStyle.Render("●"))
		} else if i == done && p.timer.Mode() == pomodoro.ModeWork && p.timer.Status() == pomodoro.StatusRunning {
			parts = append(parts, accentStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render("  " + strconv.Itoa(p.timer.CompletedCycles()) + " completed")
	return strings.Join(parts, " ") + counter
}
