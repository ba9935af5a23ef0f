package terminal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ISC-Board/sgctl/internal/commander"
	"ISC-Board/sgctl/internal/sgSerial"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type UIState int

const (
	VIEW_LIST_PORTS UIState = iota
	VIEW_LOADING
	VIEW_SELECT_COMMANDS
	VIEW_EDIT_PARAMS
	VIEW_COMMAND_RUNNER
)

type SerialReaderWriter interface {
	commander.SerialReaderWriter
	Disconnect() error
}

type PortLister func() ([]sgSerial.Endpoint, error)
type PortConnector func(string) (SerialReaderWriter, error)

type connectionSuccessMsg struct{ conn SerialReaderWriter }
type connectionErrorMsg struct{ err error }

type portsMsg struct {
	ports []sgSerial.Endpoint
	err   error
}

type refreshTickMsg time.Time

// messages streamed from the runner goroutine
type LogMsg string
type CommandStartMsg struct{ Index int }
type CommandResultMsg struct {
	Index   int
	Success bool
}
type runnerDoneMsg struct{}

type CommandStatus int

const (
	StatusPending CommandStatus = iota
	StatusRunning
	StatusPass
	StatusFail
)

type CommandResult struct {
	Name   string
	Wire   string
	Status CommandStatus
	Logs   []string
}

type commandItem struct {
	entry commander.Entry
	cmd   commander.Command
	args  []string
}

// first row of the checklist toggles every command
const selectAllLabel = "Select All"

// defines the internal state of the TUI
type model struct {
	// global internal state
	uiState UIState
	cursor  int
	err     error

	// connect to port internal state
	lister         PortLister
	connector      PortConnector
	profile        sgSerial.Config
	refresh        time.Duration
	potentialPorts []sgSerial.Endpoint
	portName       string
	serial         SerialReaderWriter

	// select commands internal state
	items         []commandItem
	selected      map[int]struct{}
	paramInput    textinput.Model
	editingTarget int

	// command runner internal state
	results    []CommandResult
	logChan    chan any
	runnerStop chan struct{}
	runnerDone chan struct{}
	running    bool
	spinner    spinner.Model
}

// StartApplication runs the console until the user quits, then releases the
// port if one was opened
func StartApplication(lister PortLister, connector PortConnector, profile sgSerial.Config, refresh time.Duration, logger *zap.Logger) error {
	final, err := tea.NewProgram(initialModel(lister, connector, profile, refresh)).Run()
	if err != nil {
		logger.Error("Error running console", zap.Error(err))
		return err
	}

	m, ok := final.(model)
	if !ok {
		return nil
	}
	if err := m.shutdown(); err != nil {
		logger.Error("Error while disconnecting", zap.Error(err), zap.String("portName", m.portName))
		return err
	}
	return nil
}

// shutdown stops a runner that is still going, waits for it to exit and
// releases the port. Nothing reads the runner channel once the program quit.
func (m model) shutdown() error {
	if m.runnerStop != nil {
		close(m.runnerStop)
	}
	if m.runnerDone != nil {
		<-m.runnerDone
	}
	if m.serial != nil {
		return m.serial.Disconnect()
	}
	return nil
}

// TUI tries to use functional programming paradigms, so you return a new model everytime, rather
// then modify a pointer
func initialModel(lister PortLister, connector PortConnector, profile sgSerial.Config, refresh time.Duration) model {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 128

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle

	return model{
		uiState:    VIEW_LIST_PORTS,
		lister:     lister,
		connector:  connector,
		profile:    profile,
		refresh:    refresh,
		items:      catalogItems(),
		selected:   make(map[int]struct{}),
		paramInput: input,
		spinner:    s,
	}
}

// catalogItems builds the checklist, index 0 being the select all row
func catalogItems() []commandItem {
	items := []commandItem{{}}
	for _, entry := range commander.Catalog() {
		args := make([]string, len(entry.Defaults))
		for i, v := range entry.Defaults {
			args[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}

		cmd, err := entry.Parse(args)
		if err != nil {
			panic(fmt.Sprintf("catalog defaults for %s do not parse: %v", entry.Key, err))
		}

		items = append(items, commandItem{entry: entry, cmd: cmd, args: args})
	}
	return items
}

func (item commandItem) label() string {
	if len(item.args) == 0 {
		return item.cmd.Name()
	}
	return item.cmd.Name() + " (" + strings.Join(item.args, ", ") + ")"
}

func listPorts(lister PortLister) tea.Cmd {
	return func() tea.Msg {
		ports, err := lister()
		return portsMsg{ports: ports, err: err}
	}
}

func tickRefresh(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func connectToPort(connector PortConnector, port string) tea.Cmd {
	return func() tea.Msg {
		connection, err := connector(port)
		if err != nil {
			return connectionErrorMsg{err: err}
		}
		return connectionSuccessMsg{conn: connection}
	}
}

func waitForLog(ch <-chan any) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return runnerDoneMsg{}
		}
		return msg
	}
}

// chanWriter turns commander log lines into LogMsg values for the UI. Lines
// are dropped once stop is closed.
type chanWriter struct {
	ch   chan<- any
	stop <-chan struct{}
}

func (w *chanWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if !send(w.ch, w.stop, LogMsg(line)) {
			break
		}
	}
	return len(p), nil
}

func send(ch chan<- any, stop <-chan struct{}, msg any) bool {
	select {
	case ch <- msg:
		return true
	case <-stop:
		return false
	}
}

// runCommands executes cmds in order and reports progress on ch. It returns
// early once stop is closed, and closes ch and done when finished.
func runCommands(conn SerialReaderWriter, cmds []commander.Command, ch chan<- any, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(ch)

	w := &chanWriter{ch: ch, stop: stop}
	c := commander.New(conn, w)

	for idx, cmd := range cmds {
		if !send(ch, stop, CommandStartMsg{Index: idx}) {
			return
		}
		_, err := c.Run(cmd)
		if !send(ch, stop, CommandResultMsg{Index: idx, Success: err == nil}) {
			return
		}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listPorts(m.lister), tickRefresh(m.refresh), m.spinner.Tick)
}
