package entity

import "slices"

// Session is the process wide game aggregate.
// It holds no locks and performs no validation: callers serialize access.
type Session struct {
	participants []string
	turn         string
	board        Board
	active       bool
}

// SessionView is a read-only copy of the session for reporting.
type SessionView struct {
	Participants []string `json:"participants"`
	Turn         string   `json:"turn,omitempty"`
	Board        Board    `json:"board"`
	Active       bool     `json:"active"`
}

func NewSession() *Session {
	return &Session{
		participants: make([]string, 0, MaxParticipants),
		board:        NewBoard(),
	}
}

// Participants - copy of the participant list in join order.
func (that *Session) Participants() []string {
	return slices.Clone(that.participants)
}

func (that *Session) Len() int {
	return len(that.participants)
}

func (that *Session) Turn() string {
	return that.turn
}

func (that *Session) Board() Board {
	return that.board
}

func (that *Session) IsActive() bool {
	return that.active
}

// IndexOf - slot of the participant or -1.
func (that *Session) IndexOf(id string) int {
	return slices.Index(that.participants, id)
}

func (that *Session) Has(id string) bool {
	return that.IndexOf(id) >= 0
}

// MarkOf - mark derived from the participant's slot.
func (that *Session) MarkOf(id string) (Mark, bool) {
	idx := that.IndexOf(id)
	if idx < 0 {
		return Empty, false
	}

	return MarkForSlot(idx), true
}

// Opponent - the other participant, or NoParticipant.
func (that *Session) Opponent(id string) string {
	for _, p := range that.participants {
		if p != id {
			return p
		}
	}

	return NoParticipant
}

func (that *Session) AddParticipant(id string) {
	that.participants = append(that.participants, id)
}

// RemoveParticipant - drops the participant and reports whether it was present.
func (that *Session) RemoveParticipant(id string) bool {
	idx := that.IndexOf(id)
	if idx < 0 {
		return false
	}

	that.participants = slices.Delete(that.participants, idx, idx+1)

	if that.turn == id {
		that.turn = NoParticipant
	}

	return true
}

func (that *Session) SetTurn(id string) {
	that.turn = id
}

func (that *Session) SetBoard(board Board) {
	that.board = board
}

func (that *Session) SetActive(active bool) {
	that.active = active
}

// Reset - back to the idle configuration.
func (that *Session) Reset() {
	that.participants = that.participants[:0]
	that.turn = NoParticipant
	that.board = NewBoard()
	that.active = false
}

func (that *Session) Snapshot() SessionView {
	return SessionView{
		Participants: that.Participants(),
		Turn:         that.turn,
		Board:        that.board,
		Active:       that.active,
	}
}
