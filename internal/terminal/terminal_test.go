package terminal

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ISC-Board/sgctl/internal/commander"
	"ISC-Board/sgctl/internal/sgSerial"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeConn struct {
	mu           sync.Mutex
	sent         []string
	fail         map[string]bool
	disconnected int
}

func (f *fakeConn) WriteRead(wire string, framing sgSerial.Framing) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, wire)
	if f.fail[wire] {
		return "", &sgSerial.ExchangeError{Kind: sgSerial.ErrTimeout, Command: wire}
	}
	return wire + "\r\n", nil
}

func (f *fakeConn) Disconnect() error {
	f.disconnected++
	return nil
}

var testPorts = []sgSerial.Endpoint{
	{Name: "/dev/ttyS0"},
	{Name: "/dev/ttyUSB0", IsUSB: true, VendorID: 0x0403, ProductID: 0x6001},
	{Name: "/dev/ttyACM0", IsUSB: true, VendorID: sgSerial.TARGET_VENDOR_ID, ProductID: sgSerial.TARGET_PRODUCT_ID},
}

func newTestModel(conn *fakeConn) model {
	lister := func() ([]sgSerial.Endpoint, error) { return testPorts, nil }
	connector := func(string) (SerialReaderWriter, error) { return conn, nil }
	return initialModel(lister, connector, sgSerial.DefaultConfig(), time.Second)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// connected walks the model through port selection with the fake connection
func connected(t *testing.T, conn *fakeConn) model {
	t.Helper()
	m := newTestModel(conn)
	m, _ = update(t, m, portsMsg{ports: testPorts})
	m, cmd := update(t, m, key("enter"))
	if m.uiState != VIEW_LOADING || cmd == nil {
		t.Fatalf("enter did not start connecting (state %v)", m.uiState)
	}
	m, _ = update(t, m, cmd())
	if m.uiState != VIEW_SELECT_COMMANDS {
		t.Fatalf("state = %v after connecting, want VIEW_SELECT_COMMANDS", m.uiState)
	}
	return m
}

// drain feeds runner messages back into the model until the runner is done
func drain(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for m.running && cmd != nil {
		if time.Now().After(deadline) {
			t.Fatal("runner did not finish")
		}
		m, cmd = update(t, m, cmd())
	}
	return m
}

func TestPortCursorStartsOnBoard(t *testing.T) {
	m := newTestModel(&fakeConn{})
	m, _ = update(t, m, portsMsg{ports: testPorts})

	if m.cursor != 2 {
		t.Errorf("cursor = %d, want the board at index 2", m.cursor)
	}

	m, _ = update(t, m, key("up"))
	m, _ = update(t, m, portsMsg{ports: testPorts})
	if m.cursor != 1 {
		t.Errorf("refresh moved the cursor to %d, want it to stay at 1", m.cursor)
	}
}

func TestPortCursorClampedWhenPortsVanish(t *testing.T) {
	m := newTestModel(&fakeConn{})
	m, _ = update(t, m, portsMsg{ports: testPorts})
	m, _ = update(t, m, portsMsg{ports: testPorts[:1]})

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestPortListingError(t *testing.T) {
	m := newTestModel(&fakeConn{})
	cause := errors.New("enumerator failed")
	m, _ = update(t, m, portsMsg{err: cause})

	if !errors.Is(m.err, cause) {
		t.Errorf("err = %v, want %v", m.err, cause)
	}
	if !strings.Contains(m.View(), "enumerator failed") {
		t.Error("view does not show the listing error")
	}
}

func TestConnectionFailureReturnsToPorts(t *testing.T) {
	m := newTestModel(&fakeConn{})
	m.connector = func(string) (SerialReaderWriter, error) { return nil, sgSerial.ErrOpenFailed }
	m, _ = update(t, m, portsMsg{ports: testPorts})
	m, cmd := update(t, m, key("enter"))
	m, cmd = update(t, m, cmd())

	if m.uiState != VIEW_LIST_PORTS {
		t.Errorf("state = %v, want VIEW_LIST_PORTS", m.uiState)
	}
	if !errors.Is(m.err, sgSerial.ErrOpenFailed) {
		t.Errorf("err = %v, want ErrOpenFailed", m.err)
	}
	if cmd == nil {
		t.Error("expected the port list to be refreshed")
	}
}

func TestToggleSelectAll(t *testing.T) {
	m := connected(t, &fakeConn{})

	m, _ = update(t, m, key(" "))
	if len(m.selected) != len(m.items) {
		t.Fatalf("select all picked %d of %d rows", len(m.selected), len(m.items))
	}

	m, _ = update(t, m, key(" "))
	if len(m.selected) != 0 {
		t.Fatalf("second toggle left %d rows selected", len(m.selected))
	}

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key(" "))
	if _, ok := m.selected[1]; !ok || len(m.selected) != 1 {
		t.Errorf("selected = %v, want only row 1", m.selected)
	}
}

func TestEnterWithoutSelection(t *testing.T) {
	m := connected(t, &fakeConn{})
	m, _ = update(t, m, key("enter"))

	if m.uiState != VIEW_SELECT_COMMANDS || !errors.Is(m.err, errNothingSelected) {
		t.Errorf("state = %v, err = %v", m.uiState, m.err)
	}
}

func rowOf(t *testing.T, m model, key string) int {
	t.Helper()
	for i, item := range m.items {
		if item.entry.Key == key {
			return i
		}
	}
	t.Fatalf("no row for %s", key)
	return 0
}

func TestEditParams(t *testing.T) {
	m := connected(t, &fakeConn{})
	m.cursor = rowOf(t, m, "set-frequency")

	m, _ = update(t, m, key("e"))
	if m.uiState != VIEW_EDIT_PARAMS {
		t.Fatalf("state = %v, want VIEW_EDIT_PARAMS", m.uiState)
	}
	if got := m.paramInput.Value(); got != "2450" {
		t.Errorf("edit field starts with %q, want the default 2450", got)
	}

	m.paramInput.SetValue("fifty")
	m, _ = update(t, m, key("enter"))
	if m.uiState != VIEW_EDIT_PARAMS || !errors.Is(m.err, commander.ErrInvalidNumber) {
		t.Fatalf("state = %v, err = %v, want to stay editing with ErrInvalidNumber", m.uiState, m.err)
	}

	m.paramInput.SetValue("50")
	m, _ = update(t, m, key("enter"))
	if m.uiState != VIEW_SELECT_COMMANDS || m.err != nil {
		t.Fatalf("state = %v, err = %v", m.uiState, m.err)
	}
	if got := commander.Encode(m.items[m.cursor].cmd); got != "$FCS,0,50.00" {
		t.Errorf("edited command encodes to %q", got)
	}
}

func TestEditIgnoredForCommandsWithoutParams(t *testing.T) {
	m := connected(t, &fakeConn{})
	m.cursor = rowOf(t, m, "identity")

	m, _ = update(t, m, key("e"))
	if m.uiState != VIEW_SELECT_COMMANDS {
		t.Errorf("state = %v, want VIEW_SELECT_COMMANDS", m.uiState)
	}
}

func TestEditCancel(t *testing.T) {
	m := connected(t, &fakeConn{})
	m.cursor = rowOf(t, m, "set-power")

	m, _ = update(t, m, key("e"))
	m.paramInput.SetValue("1W")
	m, _ = update(t, m, key("esc"))

	if m.uiState != VIEW_SELECT_COMMANDS {
		t.Fatalf("state = %v", m.uiState)
	}
	if got := commander.Encode(m.items[m.cursor].cmd); got != "$PWRS,0,30.00" {
		t.Errorf("cancelled edit changed the command to %q", got)
	}
}

func TestRunnerReportsEachCommand(t *testing.T) {
	conn := &fakeConn{fail: map[string]bool{"$ECS,0,1": true}}
	m := connected(t, conn)

	for _, k := range []string{"identity", "rf-enable", "get-frequency"} {
		m.cursor = rowOf(t, m, k)
		m, _ = update(t, m, key(" "))
	}

	m, cmd := update(t, m, key("enter"))
	if m.uiState != VIEW_COMMAND_RUNNER || !m.running {
		t.Fatalf("state = %v, running = %v", m.uiState, m.running)
	}

	m = drain(t, m, cmd)

	if len(m.results) != 3 {
		t.Fatalf("got %d results, want 3", len(m.results))
	}
	// checklist order, not the order the rows were ticked
	want := []CommandStatus{StatusPass, StatusPass, StatusFail}
	for i, r := range m.results {
		if r.Status != want[i] {
			t.Errorf("result %d (%s) status = %v, want %v", i, r.Name, r.Status, want[i])
		}
		if len(r.Logs) == 0 {
			t.Errorf("result %d (%s) has no log lines", i, r.Name)
		}
	}
	if m.results[0].Wire != "$IDN,0" {
		t.Errorf("first result wire = %q", m.results[0].Wire)
	}
	if strings.Join(conn.sent, " ") != "$IDN,0 $FCG,0 $ECS,0,1" {
		t.Errorf("sent %v", conn.sent)
	}

	m, _ = update(t, m, key("b"))
	if m.uiState != VIEW_SELECT_COMMANDS {
		t.Errorf("state = %v after going back", m.uiState)
	}
}

func TestQuitIgnoredWhileEditing(t *testing.T) {
	m := connected(t, &fakeConn{})
	m.cursor = rowOf(t, m, "set-frequency")
	m, _ = update(t, m, key("e"))

	m.paramInput.SetValue("")
	m, _ = update(t, m, key("q"))
	if m.uiState != VIEW_EDIT_PARAMS {
		t.Errorf("state = %v, want to stay editing", m.uiState)
	}
	if got := m.paramInput.Value(); got != "q" {
		t.Errorf("edit field = %q, want the typed q", got)
	}
}

func TestSplitArgs(t *testing.T) {
	got := splitArgs(" 2400, 2500,5\t30 ")
	if strings.Join(got, "|") != "2400|2500|5|30" {
		t.Errorf("splitArgs = %q", got)
	}
}

func TestShutdownWhileRunnerIsBlocked(t *testing.T) {
	conn := &fakeConn{fail: map[string]bool{"$ECS,0,1": true}}
	m := connected(t, conn)

	for _, k := range []string{"identity", "rf-enable", "get-frequency"} {
		m.cursor = rowOf(t, m, k)
		m, _ = update(t, m, key(" "))
	}

	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())

	// ctrl+c quits even while the runner is busy; nobody reads logChan after that
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, quit := cmd().(tea.QuitMsg); !quit {
		t.Fatal("ctrl+c did not quit")
	}
	if !m.running {
		t.Fatal("runner finished before the quit, nothing to test")
	}

	done := make(chan error, 1)
	go func() { done <- m.shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("shutdown failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown blocked on the runner")
	}

	if conn.disconnected != 1 {
		t.Errorf("port disconnected %d times, want 1", conn.disconnected)
	}
}

func TestShutdownWithoutRunner(t *testing.T) {
	conn := &fakeConn{}
	m := connected(t, conn)

	if err := m.shutdown(); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if conn.disconnected != 1 {
		t.Errorf("port disconnected %d times, want 1", conn.disconnected)
	}

	if err := newTestModel(conn).shutdown(); err != nil {
		t.Errorf("shutdown before connecting = %v", err)
	}
}
