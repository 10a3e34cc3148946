package orders

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"ordermatch/matching"
)

// Порядок категорий в отчете
var reportOrder = []string{
	StatusParsingError,
	string(matching.StatusInvalidQuantity),
	StatusMissingData,
	string(matching.StatusNoMatch),
	string(matching.StatusLowScore),
	string(matching.StatusAmbiguous),
	string(matching.StatusDiscontinued),
	string(matching.StatusUnavailable),
}

// UnmatchedLine строка заказа, не получившая уверенного совпадения
type UnmatchedLine struct {
	LineNumber int    `json:"line_number"`
	Raw        string `json:"raw,omitempty"`
	Name       string `json:"name,omitempty"`
	Reason     string `json:"reason"`
}

// Summary сводка обработки заказа
type Summary struct {
	Total              int            `json:"total"`
	Matched            int            `json:"matched"`
	MatchedWithWarning int            `json:"matched_with_warnings"`
	Unmatched          int            `json:"unmatched"`
	ByReason           map[string]int `json:"unmatched_by_reason,omitempty"`
}

// Tracker копит неразрешенные строки заказа по категориям причин.
// Совпадения с предупреждениями учитываются отдельно: они не требуют
// ручного разбора, но заслуживают внимания оператора.
type Tracker struct {
	mu           sync.Mutex
	byReason     map[string][]UnmatchedLine
	withWarnings []UnmatchedLine
	total        int
	matched      int
}

// NewTracker создает пустой трекер
func NewTracker() *Tracker {
	return &Tracker{byReason: make(map[string][]UnmatchedLine)}
}

// Add учитывает результат обработки одной строки
func (t *Tracker) Add(line LineResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++

	if line.Status == string(matching.StatusMatched) {
		t.matched++
		if len(line.Warnings) > 0 {
			t.withWarnings = append(t.withWarnings, UnmatchedLine{
				LineNumber: line.LineNumber,
				Raw:        line.Raw,
				Name:       line.Name,
				Reason:     strings.Join(line.Warnings, "; "),
			})
		}
		return
	}

	reason := line.Status
	t.byReason[reason] = append(t.byReason[reason], UnmatchedLine{
		LineNumber: line.LineNumber,
		Raw:        line.Raw,
		Name:       line.Name,
		Reason:     reason,
	})
}

// Summary возвращает сводку по учтенным строкам
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := Summary{
		Total:              t.total,
		Matched:            t.matched,
		MatchedWithWarning: len(t.withWarnings),
	}

	if len(t.byReason) > 0 {
		summary.ByReason = make(map[string]int, len(t.byReason))
		for reason, lines := range t.byReason {
			summary.ByReason[reason] = len(lines)
			summary.Unmatched += len(lines)
		}
	}

	return summary
}

// Lines возвращает неразрешенные строки категории
func (t *Tracker) Lines(reason string) []UnmatchedLine {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]UnmatchedLine(nil), t.byReason[reason]...)
}

// WarningLines возвращает совпавшие строки с предупреждениями
func (t *Tracker) WarningLines() []UnmatchedLine {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]UnmatchedLine(nil), t.withWarnings...)
}

// Report формирует текстовый отчет для оператора
func (t *Tracker) Report() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder

	unmatched := 0
	for _, lines := range t.byReason {
		unmatched += len(lines)
	}

	fmt.Fprintf(&b, "Order processing report\n")
	fmt.Fprintf(&b, "Total lines: %d, matched: %d, unmatched: %d, with warnings: %d\n",
		t.total, t.matched, unmatched, len(t.withWarnings))

	for _, reason := range t.reasonsInOrder() {
		lines := t.byReason[reason]
		fmt.Fprintf(&b, "\n%s (%d):\n", reason, len(lines))
		for _, line := range lines {
			label := line.Name
			if label == "" {
				label = line.Raw
			}
			fmt.Fprintf(&b, "  line %d: %s\n", line.LineNumber, label)
		}
	}

	if len(t.withWarnings) > 0 {
		fmt.Fprintf(&b, "\nmatched with warnings (%d):\n", len(t.withWarnings))
		for _, line := range t.withWarnings {
			fmt.Fprintf(&b, "  line %d: %s (%s)\n", line.LineNumber, line.Name, line.Reason)
		}
	}

	return b.String()
}

// reasonsInOrder возвращает непустые категории в порядке отчета,
// неизвестные категории в конце по алфавиту
func (t *Tracker) reasonsInOrder() []string {
	known := make(map[string]bool, len(reportOrder))
	var ordered []string

	for _, reason := range reportOrder {
		known[reason] = true
		if len(t.byReason[reason]) > 0 {
			ordered = append(ordered, reason)
		}
	}

	var extra []string
	for reason := range t.byReason {
		if !known[reason] {
			extra = append(extra, reason)
		}
	}
	sort.Strings(extra)

	return append(ordered, extra...)
}

// Reset очищает трекер
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byReason = make(map[string][]UnmatchedLine)
	t.withWarnings = nil
	t.total = 0
	t.matched = 0
}
