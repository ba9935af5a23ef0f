package terminal

import (
	"fmt"
	"strings"

	"ISC-Board/sgctl/internal/commander"
)

func (m model) View() string {
	var b strings.Builder

	switch m.uiState {
	case VIEW_LIST_PORTS:
		m.viewPorts(&b)
	case VIEW_LOADING:
		b.WriteString(headerStyle.Render("Connecting to "+m.portName) + "\n\n")
		b.WriteString(m.spinner.View() + " opening port...\n")
	case VIEW_SELECT_COMMANDS:
		m.viewCommands(&b)
	case VIEW_EDIT_PARAMS:
		item := m.items[m.editingTarget]
		b.WriteString(headerStyle.Render("Edit "+item.cmd.Name()) + "\n\n")
		b.WriteString(mutedStyle.Render(item.entry.Usage()) + "\n\n")
		b.WriteString(m.paramInput.View() + "\n\n")
		b.WriteString(renderHint("enter: apply · esc: cancel"))
	case VIEW_COMMAND_RUNNER:
		m.viewRunner(&b)
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return containerStyle.Render(b.String()) + "\n"
}

func (m model) viewPorts(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Select a port") + "\n\n")

	if len(m.potentialPorts) == 0 {
		b.WriteString(mutedStyle.Render("No serial ports found, waiting for devices...") + "\n")
	}

	for i, port := range m.potentialPorts {
		line := fmt.Sprintf("%s %s", renderCursor(i == m.cursor), renderItem(port.String(), i == m.cursor))
		if port.Matches(m.profile) {
			line += " " + boardBadgeStyle.Render("signal generator")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + renderHint("↑/↓: move · enter: connect · q: quit"))
}

func (m model) viewCommands(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Connected to "+m.portName) + "\n\n")

	for i, item := range m.items {
		_, checked := m.selected[i]

		label := selectAllLabel
		wire := ""
		if i > 0 {
			label = item.label()
			wire = wireStyle.Render(" " + commander.Encode(item.cmd))
		}

		b.WriteString(fmt.Sprintf("%s %s %s%s\n",
			renderCursor(i == m.cursor),
			renderCheckbox(checked),
			renderItem(label, i == m.cursor),
			wire,
		))
	}

	b.WriteString("\n" + renderHint("space: toggle · e: edit values · enter: run · q: quit"))
}

func (m model) viewRunner(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Running on "+m.portName) + "\n\n")

	for _, res := range m.results {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			renderStatusIcon(res.Status, m.spinner.View()),
			renderCommandName(res.Name, res.Status),
			wireStyle.Render(res.Wire),
		))
		for _, line := range res.Logs {
			b.WriteString(logIndent + logContentStyle.Render(line) + "\n")
		}
	}

	if m.running {
		b.WriteString("\n" + renderHint("running... ctrl+c: abort"))
	} else {
		b.WriteString("\n" + renderHint("enter: run again · b: back · q: quit"))
	}
}
