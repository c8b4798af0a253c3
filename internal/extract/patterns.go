package extract

import (
	"regexp"
	"strings"

	"github.com/nao1215/psiscan/internal/model"
)

// DefaultHonorifics are titles that are never taken as a name.
var DefaultHonorifics = []string{"Mr", "Ms", "Mrs", "Dr", "Mx"}

// Nationalities is the closed demonym vocabulary for the Nationality attribute.
var Nationalities = []string{
	"American", "British", "Canadian", "French", "German", "Italian",
	"Mexican", "Indian", "Chinese", "Japanese", "Australian", "Spanish",
	"Brazilian", "Russian", "South African", "Nigerian", "Egyptian",
	"Dutch", "Greek", "Swedish", "Norwegian", "Finnish", "Polish", "Korean",
	"Vietnamese", "Thai", "Indonesian", "Filipino", "Argentinian",
	"Turkish", "Portuguese", "Colombian", "Chilean", "Peruvian",
	"Saudi Arabian", "Iranian", "Iraqi", "Pakistani", "Afghan", "Bangladeshi",
	"Malaysian", "Somali", "Kenyan",
}

// capitalizedWord matches one capital followed by lowercase letters, in any
// script. Combining marks count as part of the word so decomposed accents stay
// attached. Whole-word checks happen in isWholeWord; RE2's \b is ASCII-only.
var capitalizedWord = regexp.MustCompile(`\p{Lu}[\p{Ll}\p{M}]+`)

// rule extracts one scalar attribute. group selects the submatch kept;
// 0 keeps the whole match.
type rule struct {
	attr  model.Attribute
	re    *regexp.Regexp
	group int
}

// defaultRules returns the rules for every regex attribute except the names,
// in report order.
func defaultRules() []rule {
	return []rule{
		{
			attr: model.AttrDateOfBirth,
			// D?D-M?M-YY(YY) or YYYY-M?M-D?D, separators - / .
			re: regexp.MustCompile(`\b(?:\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2})\b`),
		},
		{
			attr:  model.AttrGender,
			re:    regexp.MustCompile(`\b(Male|Female|Other)\b`),
			group: 1,
		},
		{
			attr: model.AttrAge,
			re:   regexp.MustCompile(`\b\d{2}\syears old\b`),
		},
		{
			attr:  model.AttrNationality,
			re:    regexp.MustCompile(`\b(?:(?:Nationality|Citizenship)\s?:?\s?)?(` + strings.Join(quoteAll(Nationalities), "|") + `)\b`),
			group: 1,
		},
		{
			attr:  model.AttrMaritalStatus,
			re:    regexp.MustCompile(`\b(Single|Married|Divorced|Widowed)\b`),
			group: 1,
		},
	}
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}
