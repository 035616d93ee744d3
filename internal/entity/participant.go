package entity

// MaxParticipants is the number of player slots in a session.
const MaxParticipants = 2

// NoParticipant marks an empty turn.
const NoParticipant = ""

// MarkForSlot - mark played by the participant in the given slot.
func MarkForSlot(slot int) Mark {
	switch slot {
	case 0:
		return First
	case 1:
		return Second
	default:
		return Empty
	}
}
