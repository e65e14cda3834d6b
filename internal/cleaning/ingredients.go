package cleaning

import (
	"strings"

	"menusample/internal/dataset"
	"menusample/internal/textutil"
)

// CleanIngredients drops rows without ingredients and normalizes each list:
// tokens are lower-cased and de-duplicated (first occurrence kept), then
// trimmed, stripped of markup, and HTML-unescaped. The later steps run after
// de-duplication, so two tokens differing only in markup both survive.
func CleanIngredients(rows []dataset.SampledRow) []dataset.SampledRow {
	out := make([]dataset.SampledRow, 0, len(rows))
	for _, row := range rows {
		if len(row.Ingredients) == 0 {
			continue
		}
		row.Ingredients = cleanIngredientList(row.Ingredients)
		out = append(out, row)
	}
	return out
}

func cleanIngredientList(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = textutil.Lower(token)
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		token = textutil.StripMarkup(strings.TrimSpace(token))
		out = append(out, textutil.Unescape(token))
	}
	return out
}
