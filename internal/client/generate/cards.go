package generate

import (
	"github.com/google/uuid"

	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// BuildVerbCards turns a conjugation set into one card per form. Overview
// and notes from the assessment travel on every card so they render
// without extra lookups. Device id and timestamps are stamped by the
// store on save.
func BuildVerbCards(result *VerbResult, assessment *Assessment) ([]*models.Card, error) {
	var overview, notes string
	if assessment != nil {
		overview = assessment.Overview
		notes = assessment.SpecialNotes
	}

	cards := make([]*models.Card, 0, len(result.Conjugations))
	for _, conj := range result.Conjugations {
		data, err := models.WrapPayload(models.VerbConjugationPayload{
			Verb:     result.Verb,
			Pronoun:  conj.Pronoun,
			Tense:    conj.Tense,
			Mood:     conj.Mood,
			Form:     conj.Form,
			Overview: overview,
			Notes:    notes,
		})
		if err != nil {
			return nil, err
		}
		cards = append(cards, &models.Card{
			ID:   uuid.NewString(),
			Type: models.CardTypeVerbConjugation,
			Data: data,
		})
	}
	return cards, nil
}

// BuildMeaningCard turns a meaning-only assessment into a single sentence
// card, the verb on the front and its translation on the back.
func BuildMeaningCard(assessment *Assessment) (*models.Card, error) {
	return BuildSentenceCard(assessment.Verb, assessment.EnglishMeaning, assessment.Overview)
}

// BuildSentenceCard builds one sentence card.
func BuildSentenceCard(spanish, english, notes string) (*models.Card, error) {
	data, err := models.WrapPayload(models.SentencePayload{
		SpanishSentence:    spanish,
		EnglishTranslation: english,
		GrammarNotes:       notes,
	})
	if err != nil {
		return nil, err
	}
	return &models.Card{
		ID:   uuid.NewString(),
		Type: models.CardTypeSentence,
		Data: data,
	}, nil
}
