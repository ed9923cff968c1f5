package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/livevote/internal/driver"
	"github.com/f3rmion/livevote/internal/vote"
)

// TallyMsg carries a freshly delivered tally into the program.
type TallyMsg struct {
	Tally vote.Tally
}

// StatusMsg reports the outcome of a poll or a relay connection change.
type StatusMsg driver.Status

// ProgramNotifier forwards driver callbacks to a running program.
// Send blocks until the program reads the message, so it must not be
// called from inside Update.
type ProgramNotifier struct {
	Program *tea.Program
}

// OnTallyUpdated implements driver.Notifier.
func (n ProgramNotifier) OnTallyUpdated(t vote.Tally) {
	n.Program.Send(TallyMsg{Tally: t})
}

// OnStatus can be passed to driver.WithStatus.
func (n ProgramNotifier) OnStatus(s driver.Status) {
	n.Program.Send(StatusMsg(s))
}
