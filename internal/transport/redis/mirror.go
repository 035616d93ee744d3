package redis

// Notifier is the outbound side the mirror decorates.
type Notifier interface {
	Broadcast(action string, payload any)
	Unicast(participantID, action string, payload any)
	Disconnect(participantID string)
}

type publisher interface {
	Publish(action string, payload any)
}

// Mirror forwards every call to next and republishes broadcasts.
type Mirror struct {
	next      Notifier
	publisher publisher
}

func NewMirror(next Notifier, publisher publisher) *Mirror {
	return &Mirror{
		next:      next,
		publisher: publisher,
	}
}

func (that *Mirror) Broadcast(action string, payload any) {
	that.next.Broadcast(action, payload)
	that.publisher.Publish(action, payload)
}

func (that *Mirror) Unicast(participantID, action string, payload any) {
	that.next.Unicast(participantID, action, payload)
}

func (that *Mirror) Disconnect(participantID string) {
	that.next.Disconnect(participantID)
}
