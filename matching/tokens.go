package matching

import (
	"regexp"
	"strings"
)

// Паттерны размерных токенов: "2.0 mm", "2.0mm", `2.0"`, "(2.0)"
var sizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*"`),
	regexp.MustCompile(`\((\d+(?:\.\d+)?)\)`),
}

// Цветовые токены (серый канонизируется к одной форме)
var colorTokens = map[string]string{
	"black":  "black",
	"red":    "red",
	"blue":   "blue",
	"green":  "green",
	"white":  "white",
	"yellow": "yellow",
	"orange": "orange",
	"purple": "purple",
	"pink":   "pink",
	"brown":  "brown",
	"grey":   "gray",
	"gray":   "gray",
}

// ExtractTokens извлекает нормализованные размерные и цветовые токены
// из текста наименования для уточняющего скоринга
func ExtractTokens(text string) map[string]struct{} {
	tokens := make(map[string]struct{})

	for _, pattern := range sizePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			tokens[strings.ToLower(m[1])] = struct{}{}
		}
	}

	for _, word := range splitTokens(text) {
		if canonical, ok := colorTokens[word]; ok {
			tokens[canonical] = struct{}{}
		}
	}

	return tokens
}

// TokenSimilarity вычисляет схожесть наборов атрибутных токенов как индекс
// Жаккара (пересечение / объединение) в интервале [0, 1]
func TokenSimilarity(tokens1, tokens2 map[string]struct{}) float64 {
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range tokens1 {
		if _, ok := tokens2[token]; ok {
			intersection++
		}
	}

	union := len(tokens1) + len(tokens2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}
