package service

import (
	"math/rand"
	"strings"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

const optionsPerQuestion = 4

// Placeholder pair used when the pool cannot supply distractors.
const (
	placeholderPraeteritum = "falsch"
	placeholderPartizipII  = "gefalscht"
)

var nonSeparablePrefixes = []string{"be", "ge", "er", "ver", "zer", "ent", "emp", "miss"}

// question is the per-kind strategy for building wrong answers.
type question interface {
	distractors(pool []entities.Verb) []entities.AnswerOption
}

// irregularQuestion asks for a strong verb; wrong answers apply the weak rule to it.
type irregularQuestion struct {
	verb entities.Verb
}

// regularQuestion asks for a weak verb; wrong answers borrow forms from other verbs.
type regularQuestion struct {
	verb entities.Verb
}

func questionFor(v entities.Verb) question {
	if v.IsIrregular {
		return irregularQuestion{verb: v}
	}
	return regularQuestion{verb: v}
}

// GenerateAnswers builds four shuffled options for the target verb:
// both orderings of its real forms (correct) and two wrong ones.
// The pool is expected to contain the target and its companions.
func GenerateAnswers(target entities.Verb, pool []entities.Verb) []entities.AnswerOption {
	options := make([]entities.AnswerOption, 0, optionsPerQuestion)
	options = append(options, correctOptions(target)...)
	options = append(options, questionFor(target).distractors(pool)...)

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}

func (q irregularQuestion) distractors(_ []entities.Verb) []entities.AnswerOption {
	praeteritum, partizip := WeakForms(q.verb.Infinitive)

	// Only a mis-flagged weak verb can reproduce its own forms.
	if praeteritum == q.verb.Praeteritum && partizip == q.verb.PartizipII {
		return placeholderOptions()
	}

	return []entities.AnswerOption{
		{Text: formatPair(praeteritum, partizip)},
		{Text: formatPair(partizip, praeteritum)},
	}
}

func (q regularQuestion) distractors(pool []entities.Verb) []entities.AnswerOption {
	others := otherVerbs(q.verb, pool)
	if len(others) < 2 {
		return placeholderOptions()
	}

	correct := make(map[string]bool, 2)
	for _, o := range correctOptions(q.verb) {
		correct[o.Text] = true
	}

	// Another verb's own pair.
	var foreign string
	for _, v := range shuffled(others) {
		text := formatPair(v.Praeteritum, v.PartizipII)
		if !correct[text] {
			foreign = text
			break
		}
	}

	// The target's Präteritum with another verb's participle.
	var mixed string
	for _, v := range shuffled(others) {
		text := formatPair(q.verb.Praeteritum, v.PartizipII)
		if !correct[text] && text != foreign {
			mixed = text
			break
		}
	}

	if foreign == "" || mixed == "" {
		return placeholderOptions()
	}

	return []entities.AnswerOption{
		{Text: foreign},
		{Text: mixed},
	}
}

// WeakForms derives Präteritum and Partizip II by the weak conjugation rule.
// For a strong verb the result is a plausible but wrong pair: singen → singte, gesingt.
func WeakForms(infinitive string) (praeteritum, partizip string) {
	stem := infinitive
	switch {
	case strings.HasSuffix(infinitive, "en"):
		stem = strings.TrimSuffix(infinitive, "en")
	case strings.HasSuffix(infinitive, "n"):
		stem = strings.TrimSuffix(infinitive, "n")
	}

	if strings.HasSuffix(stem, "t") || strings.HasSuffix(stem, "d") ||
		strings.HasSuffix(stem, "m") || strings.HasSuffix(stem, "n") {
		praeteritum = stem + "ete"
		partizip = stem + "et"
	} else {
		praeteritum = stem + "te"
		partizip = stem + "t"
	}

	if !strings.HasSuffix(infinitive, "ieren") && !hasNonSeparablePrefix(infinitive) {
		partizip = "ge" + partizip
	}

	return praeteritum, partizip
}

func hasNonSeparablePrefix(infinitive string) bool {
	for _, p := range nonSeparablePrefixes {
		if strings.HasPrefix(infinitive, p) {
			return true
		}
	}
	return false
}

func correctOptions(v entities.Verb) []entities.AnswerOption {
	return []entities.AnswerOption{
		{Text: formatPair(v.Praeteritum, v.PartizipII), IsCorrect: true},
		{Text: formatPair(v.PartizipII, v.Praeteritum), IsCorrect: true},
	}
}

func placeholderOptions() []entities.AnswerOption {
	return []entities.AnswerOption{
		{Text: formatPair(placeholderPraeteritum, placeholderPartizipII)},
		{Text: formatPair(placeholderPartizipII, placeholderPraeteritum)},
	}
}

func otherVerbs(target entities.Verb, pool []entities.Verb) []entities.Verb {
	others := make([]entities.Verb, 0, len(pool))
	for _, v := range pool {
		if v.ID != target.ID {
			others = append(others, v)
		}
	}
	return others
}

func shuffled(verbs []entities.Verb) []entities.Verb {
	out := make([]entities.Verb, len(verbs))
	copy(out, verbs)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func formatPair(first, second string) string {
	return first + ", " + second
}
