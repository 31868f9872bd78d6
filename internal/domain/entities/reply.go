package entities

// Action identifies a selectable menu button.
type Action string

const (
	ActionStartQuiz    Action = "start_quiz"
	ActionShowStats    Action = "show_stats"
	ActionHelp         Action = "help"
	ActionBackToMenu   Action = "back_to_menu"
	ActionResetConfirm Action = "reset_confirm"
	ActionResetDo      Action = "reset_do"
)

// Button is a selectable element of a reply.
// Either Action is set, or the button answers a quiz question.
type Button struct {
	Label     string
	Action    Action
	SessionID string // quiz session the choice belongs to
	Question  int    // 1-based question number the choice answers
	Choice    int    // answer index, valid when SessionID is set
}

// IsChoice reports whether the button answers a quiz question.
func (b Button) IsChoice() bool {
	return b.SessionID != ""
}

// Reply is a transport-independent message produced after a state transition.
type Reply struct {
	Text           string
	Buttons        [][]Button // rows of buttons
	RequestContact bool       // ask the client to share a phone number
	RemoveKeyboard bool       // drop any reply keyboard
	Pause          bool       // wait before rendering the next reply
}
