package orders

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// PatternCount повторяющаяся основа слова в ненайденных наименованиях
type PatternCount struct {
	Stem     string   `json:"stem"`
	Count    int      `json:"count"`
	Examples []string `json:"examples,omitempty"`
}

// maxPatternExamples число примеров наименований на одну основу
const maxPatternExamples = 3

// AnalyzeUnmatched выделяет повторяющиеся основы слов в ненайденных
// наименованиях. Частая основа указывает на систематический пробел
// каталога (серия товаров, бренд, типовая опечатка поставщика), а не на
// единичную кривую строку.
func AnalyzeUnmatched(lines []UnmatchedLine, topN int) []PatternCount {
	counts := make(map[string]int)
	examples := make(map[string][]string)

	for _, line := range lines {
		name := line.Name
		if name == "" {
			name = line.Raw
		}

		seen := make(map[string]bool)
		for _, word := range strings.Fields(strings.ToLower(name)) {
			word = strings.Trim(word, ".,;:()[]\"'")
			if len([]rune(word)) < 3 || isNumeric(word) {
				continue
			}

			stem := stemWord(word)
			if stem == "" || seen[stem] {
				continue
			}
			seen[stem] = true

			counts[stem]++
			if len(examples[stem]) < maxPatternExamples {
				examples[stem] = append(examples[stem], name)
			}
		}
	}

	patterns := make([]PatternCount, 0, len(counts))
	for stem, count := range counts {
		if count < 2 {
			// Единичная основа не образует паттерн
			continue
		}
		patterns = append(patterns, PatternCount{
			Stem:     stem,
			Count:    count,
			Examples: examples[stem],
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Stem < patterns[j].Stem
	})

	if topN > 0 && len(patterns) > topN {
		patterns = patterns[:topN]
	}

	return patterns
}

// stemWord возвращает основу слова, выбирая язык по алфавиту
func stemWord(word string) string {
	language := "english"
	if hasCyrillic(word) {
		language = "russian"
	}

	stemmed, err := snowball.Stem(word, language, true)
	if err != nil {
		return word
	}
	return stemmed
}

// hasCyrillic проверяет наличие кириллических символов
func hasCyrillic(word string) bool {
	for _, r := range word {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// isNumeric проверяет, состоит ли слово только из цифр и знаков числа
func isNumeric(word string) bool {
	if word == "" {
		return true
	}
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != ',' && r != '-' && r != 'x' && r != '×' {
			return false
		}
	}
	return true
}
