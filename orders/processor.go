package orders

import (
	"fmt"
	"log"
	"strings"

	"ordermatch/catalog"
	"ordermatch/matching"
	"ordermatch/parsing"
)

// Статусы строк заказа, дополняющие статусы матчинга
const (
	StatusParsingError = "parsing_error"
	StatusMissingData  = "missing_data"
)

// WarningQuantityDefaulted код предупреждения о подставленном количестве
const WarningQuantityDefaulted = "quantity_defaulted"

// progressLogInterval шаг логирования прогресса обработки
const progressLogInterval = 100

// ErrNoUsableColumns возвращается, когда в заголовке таблицы не удалось
// распознать ни колонку наименования, ни колонку артикула
var ErrNoUsableColumns = fmt.Errorf("no product or article column recognized in header")

// LineResult результат обработки одной строки заказа
type LineResult struct {
	LineNumber    int              `json:"line_number"`
	Raw           string           `json:"raw,omitempty"`
	Name          string           `json:"name,omitempty"`
	ArticleNumber string           `json:"article_number,omitempty"`
	Quantity      int              `json:"quantity,omitempty"`
	Status        string           `json:"status"`
	Reason        string           `json:"reason,omitempty"`
	Match         *matching.Result `json:"match,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// maxReportedPatterns предел числа повторяющихся основ в результате заказа
const maxReportedPatterns = 10

// OrderResult агрегированный результат обработки заказа
type OrderResult struct {
	Lines    []LineResult   `json:"lines"`
	Summary  Summary        `json:"summary"`
	Report   string         `json:"report,omitempty"`
	Patterns []PatternCount `json:"unmatched_patterns,omitempty"`
}

// Processor конвейер обработки заказа: разбор -> валидация количества ->
// матчинг. Ошибка одной строки никогда не прерывает пакет.
type Processor struct {
	engine *matching.Engine
	cache  *catalog.Cache
}

// NewProcessor создает конвейер обработки заказов
func NewProcessor(engine *matching.Engine, cache *catalog.Cache) *Processor {
	return &Processor{engine: engine, cache: cache}
}

// ProcessText обрабатывает текстовый заказ построчно. Весь пакет матчится
// против одного слепка каталога: результат согласован даже при
// параллельном обновлении кэша.
func (p *Processor) ProcessText(text string) *OrderResult {
	snap := p.cache.Snapshot()
	tracker := NewTracker()

	var results []LineResult
	lines := strings.Split(text, "\n")

	for i, raw := range lines {
		if parsing.IsSkippable(raw) {
			continue
		}

		lineNumber := i + 1
		result := p.processRaw(snap, lineNumber, raw)
		results = append(results, result)
		tracker.Add(result)

		if len(results)%progressLogInterval == 0 {
			log.Printf("[Orders] Processed %d lines", len(results))
		}
	}

	return &OrderResult{
		Lines:    results,
		Summary:  tracker.Summary(),
		Report:   tracker.Report(),
		Patterns: unmatchedPatterns(tracker),
	}
}

// ProcessTable обрабатывает таблицу заказа: классификация колонок выполняется
// один раз для заголовка, затем каждая строка идет через общий конвейер
func (p *Processor) ProcessTable(headers []string, rows [][]string) (*OrderResult, error) {
	mapping := parsing.ClassifyColumns(headers)
	if !mapping.Product.Assigned() && !mapping.Article.Assigned() {
		return nil, ErrNoUsableColumns
	}

	snap := p.cache.Snapshot()
	tracker := NewTracker()

	var results []LineResult
	for i, row := range rows {
		lineNumber := i + 2 // Строка 1 занята заголовком

		name := cellAt(row, mapping.Product)
		article := cellAt(row, mapping.Article)
		rawQuantity := cellAt(row, mapping.Quantity)

		var result LineResult
		if name == "" && article == "" {
			result = LineResult{
				LineNumber: lineNumber,
				Raw:        strings.Join(row, "; "),
				Status:     StatusMissingData,
				Reason:     StatusMissingData,
			}
		} else {
			result = p.processFields(snap, lineNumber, strings.Join(row, "; "), name, article, rawQuantity)
		}

		results = append(results, result)
		tracker.Add(result)

		if len(results)%progressLogInterval == 0 {
			log.Printf("[Orders] Processed %d/%d rows", len(results), len(rows))
		}
	}

	return &OrderResult{
		Lines:    results,
		Summary:  tracker.Summary(),
		Report:   tracker.Report(),
		Patterns: unmatchedPatterns(tracker),
	}, nil
}

// unmatchedPatterns выделяет повторяющиеся основы в ненайденных наименованиях:
// подсказка оператору, какие группы товаров отсутствуют в каталоге
func unmatchedPatterns(tracker *Tracker) []PatternCount {
	lines := tracker.Lines(string(matching.StatusNoMatch))
	lines = append(lines, tracker.Lines(string(matching.StatusLowScore))...)
	return AnalyzeUnmatched(lines, maxReportedPatterns)
}

// processRaw разбирает сырую строку и ведет ее через общий конвейер
func (p *Processor) processRaw(snap *catalog.Snapshot, lineNumber int, raw string) LineResult {
	parsed, err := parsing.ParseLine(raw)
	if err != nil {
		reason := parsing.ReasonNoPatternMatch
		if parseErr, ok := err.(*parsing.ParseError); ok {
			reason = parseErr.Reason
		}
		return LineResult{
			LineNumber: lineNumber,
			Raw:        raw,
			Status:     StatusParsingError,
			Reason:     reason,
		}
	}

	return p.processFields(snap, lineNumber, raw, parsed.Name, parsed.ArticleNumber, parsed.RawQuantity)
}

// processFields валидирует количество и матчит наименование против слепка
func (p *Processor) processFields(snap *catalog.Snapshot, lineNumber int, raw, name, article, rawQuantity string) LineResult {
	result := LineResult{
		LineNumber:    lineNumber,
		Raw:           raw,
		Name:          name,
		ArticleNumber: article,
	}

	quantity := 1
	if rawQuantity == "" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: 1", WarningQuantityDefaulted))
	} else {
		validated, warnings, err := parsing.ValidateQuantity(rawQuantity)
		if err != nil {
			result.Status = string(matching.StatusInvalidQuantity)
			result.Reason = string(matching.StatusInvalidQuantity)
			if validationErr, ok := err.(*parsing.ValidationError); ok {
				result.Reason = validationErr.Reason
				result.Warnings = append(result.Warnings, validationErr.Reason)
			}
			return result
		}
		quantity = validated
		result.Warnings = append(result.Warnings, warnings...)
	}
	result.Quantity = quantity

	match := p.engine.MatchAgainst(snap, name, article)
	result.Match = &match
	result.Status = string(match.Status)
	if match.Status != matching.StatusMatched {
		result.Reason = string(match.Status)
	}
	result.Warnings = append(result.Warnings, match.Warnings...)

	return result
}

// cellAt возвращает значение ячейки по назначению колонки
func cellAt(row []string, assignment parsing.Assignment) string {
	if !assignment.Assigned() || assignment.Index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[assignment.Index])
}
