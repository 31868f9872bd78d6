// Package repository loads static reference data shipped with the bot.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

var ErrEmptyCatalog = errors.New("verb catalog is empty")

type catalogVerb struct {
	Infinitive  string `json:"infinitive"`
	Praeteritum string `json:"praeteritum"`
	PartizipII  string `json:"partizip_ii"`
}

type catalogFile struct {
	Irregular []catalogVerb `json:"irregular"`
	Regular   []catalogVerb `json:"regular"`
}

// LoadVerbCatalog reads the seed catalog from a JSON file with
// "irregular" and "regular" sections. Irregular verbs come first.
func LoadVerbCatalog(path string) ([]entities.Verb, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verb catalog: %w", err)
	}

	return ParseVerbCatalog(data)
}

// ParseVerbCatalog decodes a catalog document.
func ParseVerbCatalog(data []byte) ([]entities.Verb, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verbs JSON: %w", err)
	}

	verbs := make([]entities.Verb, 0, len(file.Irregular)+len(file.Regular))
	for _, v := range file.Irregular {
		verb, err := v.toEntity(true)
		if err != nil {
			return nil, err
		}
		verbs = append(verbs, verb)
	}
	for _, v := range file.Regular {
		verb, err := v.toEntity(false)
		if err != nil {
			return nil, err
		}
		verbs = append(verbs, verb)
	}

	if len(verbs) == 0 {
		return nil, ErrEmptyCatalog
	}

	return verbs, nil
}

func (v catalogVerb) toEntity(irregular bool) (entities.Verb, error) {
	if v.Infinitive == "" || v.Praeteritum == "" || v.PartizipII == "" {
		return entities.Verb{}, fmt.Errorf("incomplete verb entry %q", v.Infinitive)
	}

	return entities.Verb{
		Infinitive:  v.Infinitive,
		Praeteritum: v.Praeteritum,
		PartizipII:  v.PartizipII,
		IsIrregular: irregular,
	}, nil
}
