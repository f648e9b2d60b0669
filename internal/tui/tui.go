package tui

import (
	"dayplan/internal/config"
	"dayplan/internal/model"
	"dayplan/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(s store.Store, set *model.CalendarSet, cfg config.Config) error {
	applyColorProfilePreference()
	m := newAppModel(s, set, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
