package catalog

import "time"

// Snapshot неизменяемый версионированный слепок каталога с индексами для
// матчинга. После публикации слепок никогда не мутируется: обновление
// каталога всегда собирает новый слепок в стороне.
type Snapshot struct {
	version int64
	builtAt time.Time

	entries    []*Entry            // Все записи в порядке загрузки
	byArticle  map[string]*Entry   // Нормализованный артикул -> запись
	byName     map[string][]*Entry // Нормализованное имя -> варианты
	bySynonym  map[string]*Entry   // Нормализованный псевдоним -> запись
	synonymCnt int
}

// SnapshotInfo сводка по слепку для наблюдаемости
type SnapshotInfo struct {
	Version     int64     `json:"version"`
	BuiltAt     time.Time `json:"built_at"`
	Entries     int       `json:"entries"`
	Synonyms    int       `json:"synonyms"`
	UniqueNames int       `json:"unique_names"`
}

// buildSnapshot собирает слепок из полного набора записей каталога.
// Снятые с производства записи остаются в индексах: движок матчинга должен
// уметь их найти, чтобы вернуть статус product_discontinued вместо
// молчаливого no_match.
func buildSnapshot(version int64, entries []Entry) *Snapshot {
	snap := &Snapshot{
		version:   version,
		builtAt:   time.Now(),
		entries:   make([]*Entry, 0, len(entries)),
		byArticle: make(map[string]*Entry, len(entries)),
		byName:    make(map[string][]*Entry, len(entries)),
		bySynonym: make(map[string]*Entry),
	}

	for i := range entries {
		entry := entries[i].Clone()
		e := &entry

		article := NormalizeArticle(e.ArticleNumber)
		if article == "" {
			continue
		}

		snap.entries = append(snap.entries, e)
		snap.byArticle[article] = e

		name := NormalizeName(e.Name)
		if name != "" {
			snap.byName[name] = append(snap.byName[name], e)
		}

		for _, alias := range e.Synonyms {
			normalized := NormalizeName(alias)
			if normalized == "" {
				continue
			}
			if _, exists := snap.bySynonym[normalized]; !exists {
				snap.bySynonym[normalized] = e
				snap.synonymCnt++
			}
		}
	}

	return snap
}

// Version возвращает монотонно растущий номер версии слепка
func (s *Snapshot) Version() int64 {
	return s.version
}

// BuiltAt возвращает время сборки слепка
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// ByArticle ищет запись по точному артикулу
func (s *Snapshot) ByArticle(article string) (*Entry, bool) {
	entry, ok := s.byArticle[NormalizeArticle(article)]
	return entry, ok
}

// ByName возвращает все варианты записей с данным нормализованным именем
func (s *Snapshot) ByName(name string) []*Entry {
	return s.byName[NormalizeName(name)]
}

// BySynonym ищет запись по утвержденному псевдониму
func (s *Snapshot) BySynonym(alias string) (*Entry, bool) {
	entry, ok := s.bySynonym[NormalizeName(alias)]
	return entry, ok
}

// Entries возвращает все записи слепка. Возвращаемый срез принадлежит
// слепку и не должен модифицироваться.
func (s *Snapshot) Entries() []*Entry {
	return s.entries
}

// Articles возвращает все нормализованные артикулы слепка
func (s *Snapshot) Articles() []string {
	articles := make([]string, 0, len(s.byArticle))
	for article := range s.byArticle {
		articles = append(articles, article)
	}
	return articles
}

// Info возвращает сводку по слепку
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		Version:     s.version,
		BuiltAt:     s.builtAt,
		Entries:     len(s.entries),
		Synonyms:    s.synonymCnt,
		UniqueNames: len(s.byName),
	}
}
