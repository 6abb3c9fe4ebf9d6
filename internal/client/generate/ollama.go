// Package generate produces card content for Spanish verbs and sentences.
// It talks to a local Ollama instance when one is reachable and falls back
// to regular conjugation patterns when it is not.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
)

// Depth selects how much conjugation material to generate for a verb.
type Depth string

const (
	DepthMeaningOnly Depth = "meaning_only"
	DepthCore        Depth = "core"
	DepthFull        Depth = "full"
)

// Assessment is the model's analysis of a verb.
type Assessment struct {
	Verb                string   `json:"verb"`
	Complexity          string   `json:"complexity"`
	Overview            string   `json:"overview"`
	SpecialNotes        string   `json:"special_notes"`
	RecommendedPractice Depth    `json:"recommended_practice"`
	EnglishMeaning      string   `json:"english_meaning"`
	RelatedVerbs        []string `json:"related_verbs"`
}

// Conjugation is a single conjugated form of a verb.
type Conjugation struct {
	Pronoun string `json:"pronoun"`
	Tense   string `json:"tense"`
	Mood    string `json:"mood"`
	Form    string `json:"form"`
}

// VerbResult is a generated conjugation set.
type VerbResult struct {
	Verb         string        `json:"verb"`
	Conjugations []Conjugation `json:"conjugations"`
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// OllamaClient generates card content via a local Ollama server.
type OllamaClient struct {
	baseURL string
	model   string
	http    *http.Client
}

// NewOllamaClient returns a client for the Ollama server at baseURL using
// the given model. Generation is slow, so timeout should be generous.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

const assessPrompt = `Analyze the Spanish verb '%[1]s' and return this exact JSON format:
{
  "verb": "%[1]s",
  "complexity": "regular" or "irregular",
  "overview": "Brief description of meaning and usage",
  "special_notes": "Any irregularities, stem changes, or special patterns",
  "recommended_practice": "meaning_only", "core", or "full",
  "english_meaning": "Primary English translation",
  "related_verbs": ["similar_verb1", "similar_verb2", "similar_verb3"]
}

For irregular verbs or verbs with complex usage patterns, recommend 'full' practice. For verbs with some irregularities but manageable patterns, recommend 'core'. For completely regular verbs with straightforward meaning, recommend 'meaning_only'. Only return the JSON, no other text.`

const corePrompt = `Generate CORE Spanish verb conjugations for '%[1]s'. Return JSON format:
{
  "verb": "%[1]s",
  "conjugations": [
    {"pronoun": "yo", "tense": "present", "mood": "indicative", "form": "conjugated_form"}
  ]
}

Generate these CORE tenses for ALL pronouns (yo, tú, él/ella/usted, nosotros, vosotros, ellos/ellas/ustedes):
- present indicative
- preterite
- imperfect
- future
- present subjunctive
- imperfect subjunctive
- simple conditional
- imperative (tú and usted forms only)

This should generate approximately 20-25 conjugations. Only return valid JSON, no other text.`

const fullPrompt = `Generate COMPLETE Spanish verb conjugations for '%[1]s'. Return JSON format:
{
  "verb": "%[1]s",
  "conjugations": [
    {"pronoun": "yo", "tense": "present", "mood": "indicative", "form": "hablo"},
    {"pronoun": "yo", "tense": "present", "mood": "subjunctive", "form": "hable"}
  ]
}

MUST generate ALL of these tenses for ALL pronouns (yo, tú, él/ella/usted, nosotros, vosotros, ellos/ellas/ustedes):

**INDICATIVE MOOD:**
- Simple: present, preterite, imperfect, future
- Compound: present_perfect, past_perfect, future_perfect

**SUBJUNCTIVE MOOD:**
- Simple: present, imperfect, imperfect_alt (alternative form)
- Compound: present_perfect, past_perfect

**CONDITIONAL MOOD:**
- Simple: simple_conditional
- Compound: conditional_perfect

**IMPERATIVE MOOD:**
- Simple: affirmative_present (for tú, usted, nosotros, vosotros, ustedes only)

This should generate approximately 70-80 conjugations total. Use exact tense names as listed above. Only return valid JSON, no other text.`

// Assess asks the model to analyze a verb and recommend a practice depth.
func (c *OllamaClient) Assess(ctx context.Context, verb string) (*Assessment, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(assessPrompt, verb))
	if err != nil {
		return nil, err
	}

	var a Assessment
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("malformed assessment: %w", err)
	}
	return &a, nil
}

// Conjugate asks the model for a conjugation set at the given depth.
// DepthMeaningOnly produces no conjugations, so it is rejected here.
func (c *OllamaClient) Conjugate(ctx context.Context, verb string, depth Depth) (*VerbResult, error) {
	var prompt string
	switch depth {
	case DepthCore:
		prompt = fmt.Sprintf(corePrompt, verb)
	case DepthFull:
		prompt = fmt.Sprintf(fullPrompt, verb)
	default:
		return nil, fmt.Errorf("%w: no conjugation prompt for depth %q", common.ErrValidation, depth)
	}

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result VerbResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("malformed conjugation set: %w", err)
	}
	return &result, nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string) (json.RawMessage, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama returned %s", common.ErrServerUnavailable, resp.Status)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", common.ErrServerUnavailable, err)
	}

	return extractJSON(gen.Response)
}

// extractJSON recovers the JSON object from a model response that may be
// wrapped in prose or code fences.
func extractJSON(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	return json.RawMessage(text[start : end+1]), nil
}
