package testsupport

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"menusample/internal/ner"
)

// KeywordExtractor labels every case-insensitive occurrence of its words.
// Offsets are rune offsets, matching what the inference endpoint returns.
type KeywordExtractor struct {
	Label string
	Words []string
	// Err, when set, is returned for every call.
	Err error

	mu    sync.Mutex
	texts []string
}

// NewKeywordExtractor returns an extractor that tags words as ingredients.
func NewKeywordExtractor(words ...string) *KeywordExtractor {
	return &KeywordExtractor{Label: "FOOD", Words: words}
}

func (k *KeywordExtractor) Extract(_ context.Context, text string) ([]ner.Entity, error) {
	k.mu.Lock()
	k.texts = append(k.texts, text)
	k.mu.Unlock()
	if k.Err != nil {
		return nil, k.Err
	}

	haystack := foldRunes(text)
	entities := []ner.Entity{}
	for start := 0; start < len(haystack); start++ {
		for _, word := range k.Words {
			needle := foldRunes(word)
			if len(needle) == 0 || start+len(needle) > len(haystack) {
				continue
			}
			if string(haystack[start:start+len(needle)]) == string(needle) {
				entities = append(entities, ner.Entity{
					Start:       start,
					End:         start + len(needle),
					EntityGroup: k.Label,
					Word:        strings.ToLower(word),
				})
				break
			}
		}
	}
	return entities, nil
}

// Texts returns every text passed to Extract, in call order.
func (k *KeywordExtractor) Texts() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.texts...)
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
