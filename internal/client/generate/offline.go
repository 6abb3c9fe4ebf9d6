package generate

import (
	"fmt"
	"strings"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
)

var pronouns = []string{"yo", "tú", "él/ella/usted", "nosotros", "vosotros", "ellos/ellas/ustedes"}

var presentEndings = map[string][]string{
	"ar": {"o", "as", "a", "amos", "áis", "an"},
	"er": {"o", "es", "e", "emos", "éis", "en"},
	"ir": {"o", "es", "e", "imos", "ís", "en"},
}

var preteriteEndings = map[string][]string{
	"ar": {"é", "aste", "ó", "amos", "asteis", "aron"},
	"er": {"í", "iste", "ió", "imos", "isteis", "ieron"},
	"ir": {"í", "iste", "ió", "imos", "isteis", "ieron"},
}

// ConjugateOffline builds a conjugation set from regular patterns, with no
// model involved. It only knows -ar/-er/-ir verbs and regular endings:
// present indicative at DepthCore, plus preterite at DepthFull.
// DepthMeaningOnly yields an empty set.
func ConjugateOffline(verb string, depth Depth) (*VerbResult, error) {
	verb = strings.ToLower(strings.TrimSpace(verb))
	if len(verb) < 3 {
		return nil, fmt.Errorf("%w: %q is not a Spanish infinitive", common.ErrValidation, verb)
	}

	root, ending := verb[:len(verb)-2], verb[len(verb)-2:]
	if _, ok := presentEndings[ending]; !ok {
		return nil, fmt.Errorf("%w: %q is not a Spanish infinitive", common.ErrValidation, verb)
	}

	result := &VerbResult{Verb: verb}
	if depth == DepthMeaningOnly {
		return result, nil
	}

	for i, pronoun := range pronouns {
		result.Conjugations = append(result.Conjugations, Conjugation{
			Pronoun: pronoun,
			Tense:   "present",
			Mood:    "indicative",
			Form:    root + presentEndings[ending][i],
		})
	}

	if depth == DepthFull {
		for i, pronoun := range pronouns {
			result.Conjugations = append(result.Conjugations, Conjugation{
				Pronoun: pronoun,
				Tense:   "preterite",
				Mood:    "indicative",
				Form:    root + preteriteEndings[ending][i],
			})
		}
	}

	return result, nil
}
