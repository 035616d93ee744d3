package tictactoe

import (
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/stretchr/testify/require"
)

const broadcastTarget = "*"

type recordedEvent struct {
	Target  string
	Action  string
	Payload any
}

type recorder struct {
	events       []recordedEvent
	disconnected []string
}

func (that *recorder) Broadcast(action string, payload any) {
	that.events = append(that.events, recordedEvent{Target: broadcastTarget, Action: action, Payload: payload})
}

func (that *recorder) Unicast(participantID, action string, payload any) {
	that.events = append(that.events, recordedEvent{Target: participantID, Action: action, Payload: payload})
}

func (that *recorder) Disconnect(participantID string) {
	that.disconnected = append(that.disconnected, participantID)
}

func (that *recorder) actions() []string {
	actions := make([]string, 0, len(that.events))
	for _, event := range that.events {
		actions = append(actions, event.Action)
	}

	return actions
}

func (that *recorder) clear() {
	that.events = nil
	that.disconnected = nil
}

// fixedRandom always picks the same slot.
type fixedRandom int

func (that fixedRandom) Intn(int) int {
	return int(that)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCoordinator(t *testing.T, starterSlot int) (*Coordinator, *recorder) {
	t.Helper()

	rec := &recorder{}
	coordinator := NewCoordinator(discardLogger(), entity.NewSession(), rec, fixedRandom(starterSlot))

	return coordinator, rec
}

// startedGame connects a and b, with the turn on the given slot.
func startedGame(t *testing.T, starterSlot int) (*Coordinator, *recorder) {
	t.Helper()

	coordinator, rec := newTestCoordinator(t, starterSlot)
	require.NoError(t, coordinator.OnConnect("a"))
	require.NoError(t, coordinator.OnConnect("b"))
	rec.clear()

	return coordinator, rec
}
