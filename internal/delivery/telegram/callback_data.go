package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionMenu = "menu"
	actionQuiz = "quiz"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildMenuCallback builds callback data for a menu button.
func buildMenuCallback(action entities.Action) string {
	return callbackData{
		Action: actionMenu,
		Params: []string{string(action)},
	}.encode()
}

// buildChoiceCallback builds callback data for answering a quiz question:
// quiz:<session>:<question>:<choice>.
func buildChoiceCallback(sessionID string, question, choice int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{sessionID, strconv.Itoa(question), strconv.Itoa(choice)},
	}.encode()
}

func buildButtonCallback(b entities.Button) string {
	if b.IsChoice() {
		return buildChoiceCallback(b.SessionID, b.Question, b.Choice)
	}
	return buildMenuCallback(b.Action)
}

// eventFromCallback maps callback data to an inbound event.
// Malformed data is reported with ok == false.
func eventFromCallback(data string) (ev entities.Event, ok bool) {
	cd := decodeCallback(data)

	switch cd.Action {
	case actionMenu:
		if len(cd.Params) != 1 || cd.Params[0] == "" {
			return entities.Event{}, false
		}
		return entities.Event{
			Kind:   entities.EventAction,
			Action: entities.Action(cd.Params[0]),
		}, true

	case actionQuiz:
		if len(cd.Params) != 3 || cd.Params[0] == "" {
			return entities.Event{}, false
		}
		question, err := strconv.Atoi(cd.Params[1])
		if err != nil || question < 1 {
			return entities.Event{}, false
		}
		choice, err := strconv.Atoi(cd.Params[2])
		if err != nil {
			return entities.Event{}, false
		}
		return entities.Event{
			Kind:      entities.EventChoice,
			SessionID: cd.Params[0],
			Question:  question,
			Choice:    choice,
		}, true
	}

	return entities.Event{}, false
}
