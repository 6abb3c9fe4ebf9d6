package models

import (
	"encoding/json"
	"testing"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardValidate(t *testing.T) {
	tests := []struct {
		name    string
		card    *Card
		wantErr error
	}{
		{"ok", &Card{ID: "c1", Type: CardTypeVerbConjugation}, nil},
		{"missing id", &Card{Type: CardTypeSentence}, common.ErrValidation},
		{"missing type", &Card{ID: "c1"}, common.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.card.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateBatch_RejectsWholeBatch(t *testing.T) {
	cards := []*Card{
		{ID: "a", Type: CardTypeVerbConjugation},
		{ID: "b", Type: CardTypeVerbConjugation},
		{Type: CardTypeVerbConjugation}, // missing id
		{ID: "d", Type: CardTypeVerbConjugation},
		{ID: "e", Type: CardTypeVerbConjugation},
	}
	assert.ErrorIs(t, ValidateBatch(cards), common.ErrValidation)
}

func TestCard_JSONRoundTrip(t *testing.T) {
	data, err := WrapPayload(VerbConjugationPayload{
		Verb: "hablar", Pronoun: "yo", Tense: "present", Mood: "indicative", Form: "hablo",
	})
	require.NoError(t, err)

	c := Card{
		ID:        "c1",
		DeviceID:  "dev-a",
		Type:      CardTypeVerbConjugation,
		Data:      data,
		CreatedAt: 1000,
		UpdatedAt: 1000,
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var got Card
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.DeviceID, got.DeviceID)
	assert.Equal(t, c.Type, got.Type)
	assert.JSONEq(t, string(c.Data), string(got.Data))
	assert.Equal(t, c.CreatedAt, got.CreatedAt)
	assert.False(t, got.Deleted)
}
