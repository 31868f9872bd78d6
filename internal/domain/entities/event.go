package entities

// EventKind enumerates inbound user intents.
type EventKind int

const (
	EventStart EventKind = iota + 1
	EventContact
	EventAction
	EventChoice
	EventCancel
	EventHelp
	EventText
	EventHistory
)

// Event is an inbound intent delivered by the transport.
type Event struct {
	Kind      EventKind
	UserID    int64  // Telegram user ID
	Name      string // display name of the sender
	Phone     string // EventContact
	Action    Action // EventAction
	SessionID string // EventChoice
	Question  int    // EventChoice
	Choice    int    // EventChoice
}
