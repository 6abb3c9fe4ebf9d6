package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/amyzhang-commits/spanish-cards/internal/client/generate"
	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// AddVerb assesses a verb, generates conjugation cards at the recommended
// depth, and saves them locally. When the generation backend is down the
// offline patterns are used instead, so the command works without network.
func (a *App) AddVerb(ctx context.Context, verb string) error {

	printlnFn("Analyzing verb (this may take a while)...")

	assessment, err := a.gen.Assess(ctx, verb)
	if errors.Is(err, common.ErrServerUnavailable) {
		printlnFn("Generation backend unreachable, using offline patterns")
		return a.addVerbOffline(ctx, verb)
	}
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("%s (%s): %s", assessment.Verb, assessment.Complexity, assessment.Overview))

	depth := assessment.RecommendedPractice
	switch depth {
	case generate.DepthMeaningOnly, generate.DepthCore, generate.DepthFull:
	default:
		depth = generate.DepthCore
	}
	printlnFn("Recommended practice:", string(depth))

	var cards []*models.Card

	if depth == generate.DepthMeaningOnly {
		card, err := generate.BuildMeaningCard(assessment)
		if err != nil {
			return err
		}
		cards = []*models.Card{card}
	} else {
		result, err := a.gen.Conjugate(ctx, verb, depth)
		if errors.Is(err, common.ErrServerUnavailable) {
			printlnFn("Generation backend unreachable, using offline patterns")
			result, err = generate.ConjugateOffline(verb, depth)
		}
		if err != nil {
			return err
		}
		cards, err = generate.BuildVerbCards(result, assessment)
		if err != nil {
			return err
		}
	}

	return a.saveAndSync(ctx, cards)
}

func (a *App) addVerbOffline(ctx context.Context, verb string) error {
	result, err := generate.ConjugateOffline(verb, generate.DepthCore)
	if err != nil {
		return err
	}
	cards, err := generate.BuildVerbCards(result, nil)
	if err != nil {
		return err
	}
	return a.saveAndSync(ctx, cards)
}

// AddNote interactively creates a single sentence card.
func (a *App) AddNote(ctx context.Context) error {

	spanish, err := GetSimpleText(a.reader, "Spanish sentence:", os.Stdout)
	if err != nil {
		return err
	}
	if spanish == "" {
		return fmt.Errorf("%w: sentence must not be empty", common.ErrValidation)
	}

	english, err := GetSimpleText(a.reader, "English translation:", os.Stdout)
	if err != nil {
		return err
	}

	notes, err := GetMultiline(a.reader, "Grammar notes (optional):", os.Stdout)
	if err != nil {
		return err
	}

	card, err := generate.BuildSentenceCard(spanish, english, notes)
	if err != nil {
		return err
	}
	return a.saveAndSync(ctx, []*models.Card{card})
}

func (a *App) saveAndSync(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		printlnFn("Nothing to save")
		return nil
	}
	if err := a.store.SaveCards(ctx, cards); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Saved %d card(s) locally", len(cards)))

	a.engine.TriggerSync(ctx)
	return nil
}

// List prints all local cards.
func (a *App) List(ctx context.Context) error {
	items, err := a.store.ListCards(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("No cards yet. Try 'add <verb>'.")
		return nil
	}

	for _, c := range items {
		printlnFn(formatCard(&c))
	}
	printlnFn(fmt.Sprintf("%d card(s)", len(items)))
	return nil
}

func formatCard(c *models.Card) string {
	switch c.Type {
	case models.CardTypeVerbConjugation:
		var p models.VerbConjugationPayload
		if err := json.Unmarshal(c.Data, &p); err == nil {
			return fmt.Sprintf("[verb] %s / %s (%s %s) -> %s", p.Verb, p.Pronoun, p.Tense, p.Mood, p.Form)
		}
	case models.CardTypeSentence:
		var p models.SentencePayload
		if err := json.Unmarshal(c.Data, &p); err == nil {
			return fmt.Sprintf("[sentence] %s -> %s", p.SpanishSentence, p.EnglishTranslation)
		}
	}
	return fmt.Sprintf("[%s] %s", c.Type, c.ID)
}

// Sync runs one sync immediately.
func (a *App) Sync(ctx context.Context) error {
	err := a.engine.SyncCards(ctx)
	if errors.Is(err, common.ErrSyncInProgress) || errors.Is(err, common.ErrSyncDeferred) {
		printlnFn(err.Error())
		return nil
	}
	return err
}

// Status prints the sync state of this device.
func (a *App) Status(ctx context.Context) error {
	st, err := a.engine.Status(ctx)
	if err != nil {
		return err
	}

	lastSync := "never"
	if st.LastSync > 0 {
		lastSync = time.UnixMilli(st.LastSync).Format(time.RFC3339)
	}

	printlnFn("Device:   ", a.store.DeviceID())
	printlnFn("Mode:     ", a.status())
	printlnFn("Unsynced: ", st.UnsyncedCount)
	printlnFn("Last sync:", lastSync)
	return nil
}

// Stats prints local card counts and, when the server answers, the
// server-wide totals.
func (a *App) Stats(ctx context.Context) error {
	total, unsynced, err := a.store.Stats(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Local:  %d card(s), %d unsynced", total, unsynced))

	serverStats, err := a.api.Stats(ctx)
	if err != nil {
		printlnFn("Server: unavailable")
		return nil
	}
	printlnFn(fmt.Sprintf("Server: %d card(s) across %d device(s)", serverStats.TotalCards, serverStats.TotalDevices))
	return nil
}
