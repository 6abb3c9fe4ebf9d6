package models

import "encoding/json"

// VerbConjugationPayload is the document carried by a verb conjugation card.
// The front of the card shows pronoun+verb+tense/mood, the back the form.
type VerbConjugationPayload struct {
	Verb     string `json:"verb"`
	Pronoun  string `json:"pronoun"`
	Tense    string `json:"tense"`
	Mood     string `json:"mood"`
	Form     string `json:"form"`
	Overview string `json:"overview,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// SentencePayload is the document carried by a sentence/meaning card.
type SentencePayload struct {
	SpanishSentence    string `json:"spanish_sentence"`
	EnglishTranslation string `json:"english_translation"`
	GrammarNotes       string `json:"grammar_notes,omitempty"`
}

// WrapPayload marshals a typed payload into the opaque Data document.
func WrapPayload(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}
