// Package entities contains domain entities used across the application.
package entities

import "fmt"

// Verb is a German verb with its three principal forms.
type Verb struct {
	ID          int64  `json:"id"`
	Infinitive  string `json:"infinitive"`   // e.g. "singen"
	Praeteritum string `json:"praeteritum"`  // simple past, e.g. "sang"
	PartizipII  string `json:"partizip_ii"`  // past participle, e.g. "gesungen"
	IsIrregular bool   `json:"is_irregular"` // strong verb flag
}

// Forms returns the principal forms joined for display.
func (v Verb) Forms() string {
	return fmt.Sprintf("%s - %s - %s", v.Infinitive, v.Praeteritum, v.PartizipII)
}
