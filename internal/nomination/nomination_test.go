package nomination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikitools-ua/jurybot/internal/nomination"
)

type countrySet map[string]struct{}

func (s countrySet) Contains(tag string) bool {
	_, ok := s[tag]

	return ok
}

var testCountries = countrySet{
	"Польща":  {},
	"Чехія":   {},
	"Естонія": {},
}

const templateName = "CEE Spring 2023"

func TestParseNewCreation(t *testing.T) {
	t.Parallel()

	page := `Якась преамбула.
{{CEE Spring 2023|користувач=Olena|створено|Польща|Чехія}}
Підпис.`

	nom, err := nomination.Parse("Стаття", page, templateName, testCountries)
	require.NoError(t, err)

	assert.Equal(t, "Стаття", nom.Title)
	assert.Equal(t, "Olena", nom.Editor)
	assert.False(t, nom.IsExpansion)
	assert.Equal(t, []string{"Польща", "Чехія"}, nom.Countries)
}

func TestParseExpansion(t *testing.T) {
	t.Parallel()

	page := `{{CEE Spring 2023|користувач=Taras|доповнено|Естонія}}`

	nom, err := nomination.Parse("Стаття", page, templateName, testCountries)
	require.NoError(t, err)

	assert.True(t, nom.IsExpansion)
	assert.Equal(t, []string{"Естонія"}, nom.Countries)
}

// Sloppy spacing around delimiters and line breaks inside the template are
// common on real talk pages and must not change the parse.
func TestParseNormalizesSpacing(t *testing.T) {
	t.Parallel()

	page := "{{CEE Spring 2023 | користувач = Olena | створено | Польща }}"

	nom, err := nomination.Parse("Стаття", page, templateName, testCountries)
	require.NoError(t, err)

	assert.Equal(t, "Olena", nom.Editor)
	assert.Equal(t, []string{"Польща"}, nom.Countries)
}

func TestParseIgnoresEmptyParameters(t *testing.T) {
	t.Parallel()

	page := `{{CEE Spring 2023|користувач=Olena||створено||Польща|}}`

	nom, err := nomination.Parse("Стаття", page, templateName, testCountries)
	require.NoError(t, err)
	assert.Equal(t, []string{"Польща"}, nom.Countries)
}

func TestParseMissingTemplate(t *testing.T) {
	t.Parallel()

	_, err := nomination.Parse("Стаття", "просто текст без шаблону", templateName, testCountries)
	require.ErrorIs(t, err, nomination.ErrNominationMissing)
}

func TestParseAmbiguousTemplate(t *testing.T) {
	t.Parallel()

	page := `{{CEE Spring 2023|користувач=Olena|створено|Польща}}
{{CEE Spring 2023|користувач=Taras|створено|Чехія}}`

	_, err := nomination.Parse("Стаття", page, templateName, testCountries)
	require.ErrorIs(t, err, nomination.ErrAmbiguousNomination)
}

func TestParseMissingEditor(t *testing.T) {
	t.Parallel()

	page := `{{CEE Spring 2023|створено|Польща}}`

	_, err := nomination.Parse("Стаття", page, templateName, testCountries)
	require.ErrorIs(t, err, nomination.ErrMissingEditor)
}

func TestParseUnknownCountry(t *testing.T) {
	t.Parallel()

	page := `{{CEE Spring 2023|користувач=Olena|створено|Нарнія}}`

	_, err := nomination.Parse("Стаття", page, templateName, testCountries)
	require.ErrorIs(t, err, nomination.ErrUnknownCountry)
	assert.Contains(t, err.Error(), "Нарнія")
}
