// Package nomination extracts a contestant's structured nomination
// declaration from the free-form wikitext of an article's talk page.
package nomination

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNominationMissing indicates the talk page carries no nomination
	// template. The caller resolves it by re-fetching after correction.
	ErrNominationMissing = errors.New("no nomination template found")

	// ErrAmbiguousNomination indicates more than one nomination template
	// on a single talk page.
	ErrAmbiguousNomination = errors.New("more than one nomination template found")

	// ErrMissingEditor indicates the nomination names no contributor.
	ErrMissingEditor = errors.New("nomination does not declare an editor")

	// ErrUnknownCountry indicates a declared country tag that is not in
	// the country table.
	ErrUnknownCountry = errors.New("unknown country tag")
)

// Declaration parameter keywords, as written on the wiki.
const (
	editorKeyPrefix = "користувач"
	createdKeyword  = "створено"
	expandedKeyword = "доповнено"
	keyValueSep     = "="
	paramSep        = "|"
)

// CountryResolver answers whether a country tag is recognized.
type CountryResolver interface {
	Contains(tag string) bool
}

// Nomination is the parsed declaration that an article should be judged.
type Nomination struct {
	// Title of the nominated article, with the talk namespace stripped.
	Title string

	// Editor is the contributor the declaration credits.
	Editor string

	// IsExpansion is true for an "expansion of existing article" claim,
	// false for a "new creation" claim.
	IsExpansion bool

	// Countries holds the declared country tags, each resolved against
	// the country table.
	Countries []string
}

// normalizeSpacing strips the spaces editors habitually leave around the
// template delimiters so the declaration tokenizes uniformly. The passes
// run in sequence: collapsing " | " needs the second pass to see the
// output of the first.
func normalizeSpacing(text string) string {
	text = strings.ReplaceAll(text, " |", "|")
	text = strings.ReplaceAll(text, "| ", "|")
	text = strings.ReplaceAll(text, " =", "=")
	text = strings.ReplaceAll(text, "= ", "=")
	text = strings.ReplaceAll(text, " }", "}")

	return text
}

// Parse locates the single nomination template named templateName inside
// pageText and parses its parameters. Exactly one occurrence is expected;
// zero or several is an ambiguous-source condition the caller must resolve
// with fresh input, never something this function guesses its way out of.
func Parse(title, pageText, templateName string, countries CountryResolver) (Nomination, error) {
	normalized := normalizeSpacing(pageText)

	pattern := regexp.MustCompile(`(?s)\{\{` + regexp.QuoteMeta(templateName) + `\s*\|([^\}]*)\}\}`)

	matches := pattern.FindAllStringSubmatch(normalized, -1)
	switch {
	case len(matches) == 0:
		return Nomination{}, fmt.Errorf("%w: %s", ErrNominationMissing, title)
	case len(matches) > 1:
		return Nomination{}, fmt.Errorf("%w: %s", ErrAmbiguousNomination, title)
	}

	body := strings.NewReplacer("\n", "", "\r", "").Replace(matches[0][1])

	nom := Nomination{Title: title}

	for _, param := range strings.Split(body, paramSep) {
		switch {
		case strings.HasPrefix(param, editorKeyPrefix):
			_, value, _ := strings.Cut(param, keyValueSep)
			nom.Editor = value
		case strings.Contains(param, createdKeyword):
			// New creation is the default state.
		case strings.Contains(param, expandedKeyword):
			nom.IsExpansion = true
		case param == "":
			// Editors often leave trailing pipes.
		default:
			if !countries.Contains(param) {
				return Nomination{}, fmt.Errorf("%w: %q on %s", ErrUnknownCountry, param, title)
			}

			nom.Countries = append(nom.Countries, param)
		}
	}

	if nom.Editor == "" {
		return Nomination{}, fmt.Errorf("%w: %s", ErrMissingEditor, title)
	}

	return nom, nil
}
