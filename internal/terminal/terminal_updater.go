package terminal

import (
	"errors"
	"strings"

	"ISC-Board/sgctl/internal/commander"
	"ISC-Board/sgctl/internal/sgSerial"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var errNothingSelected = errors.New("select at least one command")

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.uiState != VIEW_EDIT_PARAMS && !m.running {
				return m, tea.Quit
			}
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case refreshTickMsg:
		// keep polling for ports, but only hit the enumerator while picking
		if m.uiState == VIEW_LIST_PORTS {
			return m, tea.Batch(listPorts(m.lister), tickRefresh(m.refresh))
		}
		return m, tickRefresh(m.refresh)
	case portsMsg:
		return m.updatePorts(msg), nil
	case LogMsg:
		// Find currently running command and append log
		for i := range m.results {
			if m.results[i].Status == StatusRunning {
				m.results[i].Logs = append(m.results[i].Logs, string(msg))
				break
			}
		}
		return m, waitForLog(m.logChan)
	case CommandStartMsg:
		if msg.Index >= 0 && msg.Index < len(m.results) {
			m.results[msg.Index].Status = StatusRunning
		}
		return m, waitForLog(m.logChan)
	case CommandResultMsg:
		if msg.Index >= 0 && msg.Index < len(m.results) {
			if msg.Success {
				m.results[msg.Index].Status = StatusPass
			} else {
				m.results[msg.Index].Status = StatusFail
			}
		}
		return m, waitForLog(m.logChan)
	case runnerDoneMsg:
		m.running = false
		return m, nil
	}

	switch m.uiState {
	case VIEW_LIST_PORTS:
		return m.updatePortSelection(msg)
	case VIEW_LOADING:
		return m.updateLoading(msg)
	case VIEW_SELECT_COMMANDS:
		return m.updateSelectCommands(msg)
	case VIEW_EDIT_PARAMS:
		return m.updateEditParams(msg)
	case VIEW_COMMAND_RUNNER:
		return m.updateRunner(msg)
	}

	return m, nil
}

func (m model) updatePorts(msg portsMsg) model {
	if msg.err != nil {
		m.err = msg.err
		return m
	}

	firstListing := m.potentialPorts == nil
	m.potentialPorts = msg.ports
	if m.potentialPorts == nil {
		m.potentialPorts = []sgSerial.Endpoint{}
	}

	// start on the first board that looks like a signal generator
	if firstListing {
		for i, p := range m.potentialPorts {
			if p.Matches(m.profile) {
				m.cursor = i
				break
			}
		}
	}
	if m.uiState == VIEW_LIST_PORTS && m.cursor >= len(m.potentialPorts) {
		m.cursor = max(len(m.potentialPorts)-1, 0)
	}

	return m
}

func (m model) updatePortSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.potentialPorts)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.potentialPorts) == 0 {
				return m, nil
			}
			m.err = nil
			m.portName = m.potentialPorts[m.cursor].Name
			m.uiState = VIEW_LOADING
			return m, connectToPort(m.connector, m.portName)
		}
	}

	return m, nil
}

func (m model) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectionSuccessMsg:
		m.serial = msg.conn
		m.cursor = 0
		m.uiState = VIEW_SELECT_COMMANDS
		return m, nil
	case connectionErrorMsg:
		m.err = msg.err
		m.uiState = VIEW_LIST_PORTS
		return m, listPorts(m.lister)
	}
	return m, nil
}

func (m model) updateSelectCommands(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			m.toggle(m.cursor)
		case "e":
			if m.cursor == 0 || len(m.items[m.cursor].entry.Params) == 0 {
				return m, nil
			}
			m.err = nil
			m.editingTarget = m.cursor
			m.paramInput.Placeholder = strings.Join(m.items[m.cursor].entry.Params, ", ")
			m.paramInput.SetValue(strings.Join(m.items[m.cursor].args, ", "))
			m.paramInput.CursorEnd()
			m.uiState = VIEW_EDIT_PARAMS
			focus := m.paramInput.Focus()
			return m, focus
		case "enter":
			if len(m.selected) == 0 {
				m.err = errNothingSelected
				return m, nil
			}
			return m.startRunner()
		}
	}

	return m, nil
}

// toggle flips one row, or every row when the select all row is hit
func (m model) toggle(idx int) {
	if idx == 0 {
		if _, ok := m.selected[0]; !ok {
			for i := 0; i < len(m.items); i++ {
				m.selected[i] = struct{}{}
			}
		} else {
			for i := 0; i < len(m.items); i++ {
				delete(m.selected, i)
			}
		}
		return
	}

	if _, ok := m.selected[idx]; !ok {
		m.selected[idx] = struct{}{}
	} else {
		delete(m.selected, idx)
	}
}

func (m model) updateEditParams(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.paramInput.Blur()
			m.uiState = VIEW_SELECT_COMMANDS
			return m, nil
		case "enter":
			item := m.items[m.editingTarget]
			args := splitArgs(m.paramInput.Value())

			cmd, err := item.entry.Parse(args)
			if err != nil {
				m.err = err
				return m, nil
			}

			// copy the slice so the model stays a value
			items := make([]commandItem, len(m.items))
			copy(items, m.items)
			items[m.editingTarget] = commandItem{entry: item.entry, cmd: cmd, args: args}
			m.items = items

			m.err = nil
			m.paramInput.Blur()
			m.uiState = VIEW_SELECT_COMMANDS
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.paramInput, cmd = m.paramInput.Update(msg)
	return m, cmd
}

func splitArgs(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func (m model) startRunner() (tea.Model, tea.Cmd) {
	m.err = nil
	m.uiState = VIEW_COMMAND_RUNNER
	m.cursor = 0
	m.logChan = make(chan any)
	m.runnerStop = make(chan struct{})
	m.runnerDone = make(chan struct{})
	m.running = true

	// iterate the checklist in order so result indices line up with the runner
	var cmds []commander.Command
	m.results = []CommandResult{}
	for idx, item := range m.items {
		if idx == 0 {
			continue // skip select all
		}
		if _, ok := m.selected[idx]; !ok {
			continue
		}
		cmds = append(cmds, item.cmd)
		m.results = append(m.results, CommandResult{
			Name:   item.label(),
			Wire:   commander.Encode(item.cmd),
			Status: StatusPending,
			Logs:   []string{},
		})
	}

	go runCommands(m.serial, cmds, m.logChan, m.runnerStop, m.runnerDone)

	return m, waitForLog(m.logChan)
}

func (m model) updateRunner(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.running {
		switch key.String() {
		case "b", "esc":
			m.uiState = VIEW_SELECT_COMMANDS
			m.cursor = 0
			return m, nil
		case "enter":
			return m.startRunner()
		}
	}
	return m, nil
}
