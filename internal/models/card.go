// Package models defines the shared card record exchanged between the local
// store, the sync engine and the sync server.
package models

import (
	"encoding/json"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
)

// CardType classifies a card kind. The sync layer treats it as an opaque tag.
type CardType string

const (
	CardTypeVerbConjugation CardType = "verb_conjugation"
	CardTypeSentence        CardType = "sentence"
)

// Card is the atomic synchronizable unit: one flashcard's content plus sync
// metadata. Data is an opaque document; the sync layer never inspects or
// merges its fields.
//
// Timestamps are epoch milliseconds. CreatedAt is set once at creation and
// preserved across updates. UpdatedAt is the last-write-wins key and the sync
// cursor key; on the server it is always overwritten with the server's
// receipt time.
type Card struct {
	ID        string          `json:"id"`
	DeviceID  string          `json:"device_id"`
	Type      CardType        `json:"card_type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
	Deleted   bool            `json:"deleted"`
}

// Validate checks the fields every sync operation relies on. Payload contents
// are deliberately not validated.
func (c *Card) Validate() error {
	if c.ID == "" {
		return common.ErrValidation
	}
	if c.Type == "" {
		return common.ErrValidation
	}
	return nil
}

// ValidateBatch validates every card of a push batch up front so a failing
// card rejects the whole batch before any row is written.
func ValidateBatch(cards []*Card) error {
	for _, c := range cards {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
