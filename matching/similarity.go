package matching

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Ratio вычисляет схожесть двух строк в шкале 0-100 на основе расстояния
// Левенштейна, нормированного на длину большей строки
func Ratio(s1, s2 string) int {
	a := strings.ToLower(strings.TrimSpace(s1))
	b := strings.ToLower(strings.TrimSpace(s2))

	if a == b {
		return 100
	}

	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}

	distance := levenshteinDistance(a, b)
	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}

	return int(math.Round(similarity * 100))
}

// TokenSortRatio вычисляет схожесть, нечувствительную к порядку слов:
// токены обеих строк сортируются перед сравнением
func TokenSortRatio(s1, s2 string) int {
	return Ratio(sortedTokenString(s1), sortedTokenString(s2))
}

// sortedTokenString приводит строку к канонической форме с
// отсортированными токенами
func sortedTokenString(s string) string {
	tokens := splitTokens(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// splitTokens разбивает строку на токены по не-буквенно-цифровым символам
func splitTokens(s string) []string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
}

// levenshteinDistance вычисляет расстояние Левенштейна между строками
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	prev := make([]int, len2+1)
	curr := make([]int, len2+1)

	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
