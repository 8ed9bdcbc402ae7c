package assistant

import (
	"fmt"
	"sort"
)

// Translations maps language code → source phrase → translated phrase.
type Translations map[string]map[string]string

// baseTranslations covers the base columns and the product-level strings of
// the configuration form.
func baseTranslations() Translations {
	return Translations{
		"de": {
			"Name":                     "Name",
			"ID":                       "ID",
			"Status":                   "Status",
			"Request device update":    "Geräteupdate anfragen",
			"Device configuration":     "Gerätekonfiguration",
			"Apply device identifiers": "Gerätekennungen vergeben",
		},
	}
}

// MergeTranslations merges src into dst. A phrase already present in dst
// with a different translation is a conflict and leaves dst unchanged.
// dst must not be nil; a nil dst returns ErrNilTranslations.
func MergeTranslations(dst, src Translations) error {
	if dst == nil {
		return ErrNilTranslations
	}
	langs := make([]string, 0, len(src))
	for lang := range src {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	// Check first so a conflict never leaves a half-merged table.
	for _, lang := range langs {
		existing := dst[lang]
		phrases := make([]string, 0, len(src[lang]))
		for phrase := range src[lang] {
			phrases = append(phrases, phrase)
		}
		sort.Strings(phrases)
		for _, phrase := range phrases {
			translated := src[lang][phrase]
			if prev, ok := existing[phrase]; ok && prev != translated {
				return fmt.Errorf("%w: %s %q is %q and %q", ErrTranslationConflict, lang, phrase, prev, translated)
			}
		}
	}

	for _, lang := range langs {
		if dst[lang] == nil {
			dst[lang] = make(map[string]string, len(src[lang]))
		}
		for phrase, translated := range src[lang] {
			dst[lang][phrase] = translated
		}
	}
	return nil
}

// BuildTranslations merges the base table with every handler's translations
// in registration order. The result does not depend on that order unless two
// handlers conflict, in which case it fails naming the phrase.
func (r *Registry) BuildTranslations() (Translations, error) {
	out := baseTranslations()
	for _, dt := range r.snapshot() {
		if err := MergeTranslations(out, dt.Translations()); err != nil {
			return nil, fmt.Errorf("%s: %w", dt.Name(), err)
		}
	}
	return out, nil
}
