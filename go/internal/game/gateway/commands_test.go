package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiCall struct {
	method    string
	sessionID string
	player    string
}

// fakeGameAPI records dispatched calls for assertions.
type fakeGameAPI struct {
	calls []apiCall
}

func (f *fakeGameAPI) record(method, sessionID, player string) {
	f.calls = append(f.calls, apiCall{method: method, sessionID: sessionID, player: player})
}

func (f *fakeGameAPI) Join(sessionID, player string)  { f.record("Join", sessionID, player) }
func (f *fakeGameAPI) Leave(sessionID, player string) { f.record("Leave", sessionID, player) }
func (f *fakeGameAPI) RequestGameStart(sessionID, player string) {
	f.record("RequestGameStart", sessionID, player)
}
func (f *fakeGameAPI) RequestTimer(sessionID, player string) {
	f.record("RequestTimer", sessionID, player)
}
func (f *fakeGameAPI) ManualDraw(sessionID string) { f.record("ManualDraw", sessionID, "") }
func (f *fakeGameAPI) AnnounceBingo(sessionID, player string) {
	f.record("AnnounceBingo", sessionID, player)
}
func (f *fakeGameAPI) SyncState(sessionID, player string) { f.record("SyncState", sessionID, player) }

func newCommandTestManager() (*ConnectionManager, *fakeGameAPI) {
	api := &fakeGameAPI{}
	cm := NewConnectionManager(DefaultConnectionConfig())
	cm.api = api
	return cm, api
}

func TestHandleClientCommandDispatch(t *testing.T) {
	cm, api := newCommandTestManager()
	conn := &Connection{ID: "c1", Player: "alice", SessionID: "lobby"}

	for _, raw := range []string{
		`{"action":"join"}`,
		`{"action":"leave"}`,
		`{"action":"requestGameStart"}`,
		`{"action":"requestTimer"}`,
		`{"action":"manualDraw"}`,
		`{"action":"announceBingo"}`,
		`{"action":"syncState"}`,
	} {
		cm.handleClientCommand(conn, []byte(raw))
	}

	require.Len(t, api.calls, 7)
	assert.Equal(t, []apiCall{
		{"Join", "lobby", "alice"},
		{"Leave", "lobby", "alice"},
		{"RequestGameStart", "lobby", "alice"},
		{"RequestTimer", "lobby", "alice"},
		{"ManualDraw", "lobby", ""},
		{"AnnounceBingo", "lobby", "alice"},
		{"SyncState", "lobby", "alice"},
	}, api.calls)
}

func TestHandleClientCommandPlayerPrecedence(t *testing.T) {
	cm, api := newCommandTestManager()

	// An authenticated connection identity wins over the payload name.
	authed := &Connection{ID: "c1", Player: "alice", SessionID: "lobby"}
	cm.handleClientCommand(authed, []byte(`{"action":"join","player":"mallory"}`))
	require.Len(t, api.calls, 1)
	assert.Equal(t, "alice", api.calls[0].player)

	// Without one, the payload name is used.
	anon := &Connection{ID: "c2", SessionID: "lobby"}
	cm.handleClientCommand(anon, []byte(`{"action":"join","player":"bob"}`))
	require.Len(t, api.calls, 2)
	assert.Equal(t, "bob", api.calls[1].player)
}

func TestHandleClientCommandMalformed(t *testing.T) {
	cm, api := newCommandTestManager()
	conn := &Connection{ID: "c1", Player: "alice", SessionID: "lobby"}

	cm.handleClientCommand(conn, []byte(`{not json`))
	cm.handleClientCommand(conn, []byte(`{"action":"selfDestruct"}`))

	assert.Empty(t, api.calls, "malformed and unknown commands are dropped")
}

func TestHandleClientCommandNoSink(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	conn := &Connection{ID: "c1", Player: "alice", SessionID: "lobby"}

	// Must not panic without a wired game core.
	cm.handleClientCommand(conn, []byte(`{"action":"join"}`))
}
