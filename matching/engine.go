package matching

import (
	"fmt"
	"log"
	"math"
	"sort"

	"ordermatch/catalog"
)

// Status статус результата матчинга
type Status string

// Статусы результата
const (
	StatusMatched         Status = "matched"
	StatusLowScore        Status = "low_score"
	StatusAmbiguous       Status = "ambiguous"
	StatusNoMatch         Status = "no_match"
	StatusInvalidQuantity Status = "invalid_quantity"
	StatusDiscontinued    Status = "product_discontinued"
	StatusUnavailable     Status = "product_unavailable"
)

// Методы матчинга (для аудита)
const (
	MethodExactArticle  = "exact_article"
	MethodExactName     = "exact_name"
	MethodSynonym       = "synonym"
	MethodFuzzyArticle  = "fuzzy_article"
	MethodFuzzyName     = "fuzzy_name"
	MethodTokenEnhanced = "token_enhanced"
)

// Result результат матчинга одного наименования
type Result struct {
	Article  string   `json:"matched_article,omitempty"`
	Name     string   `json:"matched_name,omitempty"`
	Score    int      `json:"score"`
	Method   string   `json:"method,omitempty"`
	Status   Status   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

// SuggestionRecorder принимает кандидатов в псевдонимы из полосы предложений
type SuggestionRecorder interface {
	Record(alias, article string, score int) error
}

// Thresholds пороги нечеткого матчинга.
// Граничная семантика зафиксирована как inclusive: кандидат принимается
// при score >= порога; полоса предложений — suggestionLow <= score < 100.
type Thresholds struct {
	FuzzyArticle  int // Минимальный score нечеткого совпадения артикула
	FuzzyName     int // Минимальный score нечеткого совпадения наименования
	SuggestionLow int // Нижняя граница полосы предложений псевдонимов
}

// DefaultThresholds возвращает пороги по умолчанию
func DefaultThresholds() Thresholds {
	return Thresholds{
		FuzzyArticle:  85,
		FuzzyName:     80,
		SuggestionLow: 85,
	}
}

// maxFuzzyCandidates число лучших нечетких кандидатов для token-скоринга
const maxFuzzyCandidates = 5

// Engine движок матчинга. Стратегии применяются в фиксированном порядке
// приоритета, побеждает первая успешная. Все вычисления идут против одной
// ссылки на слепок, захваченной в начале вызова.
type Engine struct {
	cache      *catalog.Cache
	thresholds Thresholds
	recorder   SuggestionRecorder
}

// NewEngine создает движок матчинга поверх кэша каталога
func NewEngine(cache *catalog.Cache, thresholds Thresholds, recorder SuggestionRecorder) *Engine {
	return &Engine{
		cache:      cache,
		thresholds: thresholds,
		recorder:   recorder,
	}
}

// Match подбирает каноническую запись каталога для наименования
// (и опционального артикула-подсказки)
func (e *Engine) Match(name, articleHint string) Result {
	snap := e.cache.Snapshot()
	return e.MatchAgainst(snap, name, articleHint)
}

// MatchAgainst выполняет матчинг против конкретного слепка. Вызывающий,
// обрабатывающий пакет строк, захватывает слепок один раз на весь пакет.
func (e *Engine) MatchAgainst(snap *catalog.Snapshot, name, articleHint string) Result {
	// Фиксированный порядок приоритета стратегий
	strategies := []func(*catalog.Snapshot, string, string) (Result, bool){
		e.exactArticle,
		e.exactName,
		e.synonym,
		e.fuzzyArticle,
		e.fuzzyName,
	}

	for _, strat := range strategies {
		result, ok := strat(snap, name, articleHint)
		if !ok {
			continue
		}
		return e.finalize(snap, result, name)
	}

	return Result{Status: StatusNoMatch}
}

// finalize применяет статусные поправки (снятые с производства, недоступные)
// и передает кандидата в полосу предложений псевдонимов
func (e *Engine) finalize(snap *catalog.Snapshot, result Result, input string) Result {
	if result.Status != StatusMatched {
		return result
	}

	if entry, ok := snap.ByArticle(result.Article); ok {
		if entry.Discontinued {
			result.Status = StatusDiscontinued
		} else if !entry.Available {
			result.Status = StatusUnavailable
		}
	}

	// Полоса предложений: хорошее, но не точное совпадение наименования,
	// которое не разрешилось стратегиями 1-3
	exactMethod := result.Method == MethodExactArticle ||
		result.Method == MethodExactName ||
		result.Method == MethodSynonym
	inBand := result.Score >= e.thresholds.SuggestionLow && result.Score < 100

	if e.recorder != nil && result.Status == StatusMatched && !exactMethod && inBand && input != "" {
		if err := e.recorder.Record(input, result.Article, result.Score); err != nil {
			log.Printf("[Match] Failed to record synonym suggestion %q -> %s: %v", input, result.Article, err)
			result.Warnings = append(result.Warnings, "suggestion_not_recorded")
		}
	}

	return result
}

// exactArticle стратегия 1: точное совпадение артикула
func (e *Engine) exactArticle(snap *catalog.Snapshot, name, articleHint string) (Result, bool) {
	if articleHint == "" {
		return Result{}, false
	}

	entry, ok := snap.ByArticle(articleHint)
	if !ok {
		return Result{}, false
	}

	return Result{
		Article: entry.ArticleNumber,
		Name:    entry.Name,
		Score:   100,
		Method:  MethodExactArticle,
		Status:  StatusMatched,
	}, true
}

// exactName стратегия 2: точное совпадение наименования без учета регистра
// и лишних пробелов. Несколько вариантов с одним именем разрешаются
// атрибутными токенами, при невозможности — ambiguous.
func (e *Engine) exactName(snap *catalog.Snapshot, name, articleHint string) (Result, bool) {
	if name == "" {
		return Result{}, false
	}

	variants := snap.ByName(name)
	if len(variants) == 0 {
		return Result{}, false
	}

	if len(variants) == 1 {
		return Result{
			Article: variants[0].ArticleNumber,
			Name:    variants[0].Name,
			Score:   100,
			Method:  MethodExactName,
			Status:  StatusMatched,
		}, true
	}

	if best := disambiguateByTokens(name, variants); best != nil {
		return Result{
			Article: best.ArticleNumber,
			Name:    best.Name,
			Score:   100,
			Method:  MethodExactName,
			Status:  StatusMatched,
		}, true
	}

	return Result{
		Score:    100,
		Method:   MethodExactName,
		Status:   StatusAmbiguous,
		Warnings: variantWarnings(variants),
	}, true
}

// synonym стратегия 3: поиск по утвержденным псевдонимам
func (e *Engine) synonym(snap *catalog.Snapshot, name, articleHint string) (Result, bool) {
	if name == "" {
		return Result{}, false
	}

	entry, ok := snap.BySynonym(name)
	if !ok {
		return Result{}, false
	}

	return Result{
		Article: entry.ArticleNumber,
		Name:    entry.Name,
		Score:   100,
		Method:  MethodSynonym,
		Status:  StatusMatched,
	}, true
}

// fuzzyArticle стратегия 4: нечеткое совпадение артикула
func (e *Engine) fuzzyArticle(snap *catalog.Snapshot, name, articleHint string) (Result, bool) {
	if articleHint == "" {
		return Result{}, false
	}

	articles := snap.Articles()
	sort.Strings(articles) // детерминированный порядок перебора

	bestScore := 0
	bestArticle := ""
	tie := false

	for _, article := range articles {
		score := Ratio(articleHint, article)
		if score > bestScore {
			bestScore = score
			bestArticle = article
			tie = false
		} else if score == bestScore && score > 0 && article != bestArticle {
			tie = true
		}
	}

	if bestScore < e.thresholds.FuzzyArticle {
		return Result{}, false
	}

	if tie {
		return Result{
			Score:    bestScore,
			Method:   MethodFuzzyArticle,
			Status:   StatusAmbiguous,
			Warnings: []string{fmt.Sprintf("multiple articles at score %d", bestScore)},
		}, true
	}

	entry, _ := snap.ByArticle(bestArticle)
	return Result{
		Article: entry.ArticleNumber,
		Name:    entry.Name,
		Score:   bestScore,
		Method:  MethodFuzzyArticle,
		Status:  StatusMatched,
	}, true
}

// fuzzyCandidate нечеткий кандидат для token-скоринга
type fuzzyCandidate struct {
	entry    *catalog.Entry
	fuzzy    int
	combined int
}

// fuzzyName стратегии 5-6: нечеткое совпадение наименования с уточнением
// атрибутными токенами среди лучших кандидатов
func (e *Engine) fuzzyName(snap *catalog.Snapshot, name, articleHint string) (Result, bool) {
	if name == "" {
		return Result{}, false
	}

	candidates := e.collectFuzzyCandidates(snap, name)
	if len(candidates) == 0 {
		return Result{}, false
	}

	if len(candidates) == 1 {
		c := candidates[0]
		return Result{
			Article: c.entry.ArticleNumber,
			Name:    c.entry.Name,
			Score:   c.fuzzy,
			Method:  MethodFuzzyName,
			Status:  StatusMatched,
		}, true
	}

	// Уточнение токенами: combined = 0.7*fuzzy + 0.3*token
	inputTokens := ExtractTokens(name)
	for i := range candidates {
		tokenScore := TokenSimilarity(inputTokens, ExtractTokens(candidates[i].entry.Name))
		combined := 0.7*float64(candidates[i].fuzzy) + 0.3*tokenScore*100
		candidates[i].combined = int(math.Round(combined))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].combined != candidates[j].combined {
			return candidates[i].combined > candidates[j].combined
		}
		return candidates[i].entry.ArticleNumber < candidates[j].entry.ArticleNumber
	})

	best := candidates[0]
	if best.combined < e.thresholds.FuzzyName {
		// Нечеткие кандидаты были, но уточнение токенами опустило лучший
		// комбинированный результат ниже порога
		return Result{
			Score:  best.combined,
			Method: MethodTokenEnhanced,
			Status: StatusLowScore,
		}, true
	}

	if candidates[1].combined == best.combined {
		tied := []*catalog.Entry{best.entry}
		for _, c := range candidates[1:] {
			if c.combined == best.combined {
				tied = append(tied, c.entry)
			}
		}
		return Result{
			Score:    best.combined,
			Method:   MethodTokenEnhanced,
			Status:   StatusAmbiguous,
			Warnings: variantWarnings(tied),
		}, true
	}

	return Result{
		Article: best.entry.ArticleNumber,
		Name:    best.entry.Name,
		Score:   best.combined,
		Method:  MethodTokenEnhanced,
		Status:  StatusMatched,
	}, true
}

// collectFuzzyCandidates собирает лучших нечетких кандидатов по
// наименованию (не более maxFuzzyCandidates, каждый не ниже порога)
func (e *Engine) collectFuzzyCandidates(snap *catalog.Snapshot, name string) []fuzzyCandidate {
	var candidates []fuzzyCandidate

	for _, entry := range snap.Entries() {
		score := TokenSortRatio(name, entry.Name)
		if score < e.thresholds.FuzzyName {
			continue
		}
		candidates = append(candidates, fuzzyCandidate{entry: entry, fuzzy: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].fuzzy != candidates[j].fuzzy {
			return candidates[i].fuzzy > candidates[j].fuzzy
		}
		return candidates[i].entry.ArticleNumber < candidates[j].entry.ArticleNumber
	})

	if len(candidates) > maxFuzzyCandidates {
		candidates = candidates[:maxFuzzyCandidates]
	}

	return candidates
}

// disambiguateByTokens выбирает вариант с наибольшим совпадением атрибутных
// токенов; nil если токены не дают уверенного выбора
func disambiguateByTokens(input string, variants []*catalog.Entry) *catalog.Entry {
	inputTokens := ExtractTokens(input)
	if len(inputTokens) == 0 {
		return nil
	}

	var best *catalog.Entry
	bestScore := 0.0
	tie := false

	for _, variant := range variants {
		score := TokenSimilarity(inputTokens, ExtractTokens(variant.Name))
		if score > bestScore {
			bestScore = score
			best = variant
			tie = false
		} else if score == bestScore && score > 0 {
			tie = true
		}
	}

	if tie || bestScore <= 0.5 {
		return nil
	}
	return best
}

// variantWarnings формирует предупреждения со списком неразличимых кандидатов
func variantWarnings(variants []*catalog.Entry) []string {
	warnings := make([]string, 0, len(variants))
	for _, v := range variants {
		warnings = append(warnings, fmt.Sprintf("candidate: %s (%s)", v.Name, v.ArticleNumber))
	}
	return warnings
}
