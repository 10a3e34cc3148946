package services

import (
	"fmt"
	"log"
	"time"

	"ordermatch/catalog"
	"ordermatch/database"
	"ordermatch/versioning"
)

// CatalogService операции над каталогом: CRUD, журнал версий, кэш.
// Каждая мутация фиксируется в журнале и синхронно обновляет кэш.
// Отказ обновления кэша после успешной мутации не откатывает ее:
// мутация сохранена и зафиксирована в журнале, прежний слепок остается
// активным, вызывающий получает предупреждение.
type CatalogService struct {
	db       *database.CatalogDB
	cache    *catalog.Cache
	versions *versioning.Manager
	refresh  func() error
}

// NewCatalogService создает сервис каталога
func NewCatalogService(db *database.CatalogDB, cache *catalog.Cache, versions *versioning.Manager) *CatalogService {
	s := &CatalogService{
		db:       db,
		cache:    cache,
		versions: versions,
	}
	s.refresh = s.RefreshCache
	return s
}

// RefreshCache перечитывает каталог из БД и публикует новый слепок
func (s *CatalogService) RefreshCache() error {
	entries, err := s.db.ListProducts()
	if err != nil {
		return fmt.Errorf("failed to load catalog for cache refresh: %w", err)
	}

	if _, err := s.cache.Refresh(entries); err != nil {
		return err
	}

	return nil
}

// CacheInfo возвращает сводку текущего слепка
func (s *CatalogService) CacheInfo() catalog.SnapshotInfo {
	return s.cache.Info()
}

// ListProducts возвращает все записи каталога
func (s *CatalogService) ListProducts() ([]catalog.Entry, error) {
	return s.db.ListProducts()
}

// GetProduct возвращает запись каталога по артикулу
func (s *CatalogService) GetProduct(article string) (catalog.Entry, error) {
	return s.db.GetProduct(article)
}

// CreateProduct добавляет запись каталога, фиксирует версию и обновляет кэш
func (s *CatalogService) CreateProduct(entry catalog.Entry, changedBy string) (catalog.Entry, []string, error) {
	if err := s.db.InsertProduct(entry); err != nil {
		return catalog.Entry{}, nil, err
	}

	created, err := s.db.GetProduct(entry.ArticleNumber)
	if err != nil {
		return catalog.Entry{}, nil, err
	}

	if _, err := s.versions.Append(created, versioning.ReasonCreated, changedBy); err != nil {
		return catalog.Entry{}, nil, err
	}

	log.Printf("[Catalog] Created product %s", created.ArticleNumber)
	return created, s.refreshAfterMutation(created.ArticleNumber), nil
}

// UpdateProduct обновляет запись каталога, фиксирует версию и обновляет кэш
func (s *CatalogService) UpdateProduct(entry catalog.Entry, changedBy string) (catalog.Entry, []string, error) {
	if err := s.db.UpdateProduct(entry); err != nil {
		return catalog.Entry{}, nil, err
	}

	updated, err := s.db.GetProduct(entry.ArticleNumber)
	if err != nil {
		return catalog.Entry{}, nil, err
	}

	if _, err := s.versions.Append(updated, versioning.ReasonUpdated, changedBy); err != nil {
		return catalog.Entry{}, nil, err
	}

	log.Printf("[Catalog] Updated product %s", updated.ArticleNumber)
	return updated, s.refreshAfterMutation(updated.ArticleNumber), nil
}

// SoftDelete помечает запись снятой с производства
func (s *CatalogService) SoftDelete(article, changedBy string) ([]string, error) {
	if err := s.versions.SoftDelete(article, changedBy); err != nil {
		return nil, err
	}
	return s.refreshAfterMutation(article), nil
}

// Restore возвращает запись в активный каталог
func (s *CatalogService) Restore(article, changedBy string) ([]string, error) {
	if err := s.versions.Restore(article, changedBy); err != nil {
		return nil, err
	}
	return s.refreshAfterMutation(article), nil
}

// refreshAfterMutation обновляет кэш после успешной мутации каталога.
// Отказ обновления не делает мутацию ошибкой: запись сохранена и
// зафиксирована в журнале, матчинг продолжает работать с прежним слепком.
// Вызывающему возвращается предупреждение.
func (s *CatalogService) refreshAfterMutation(article string) []string {
	if err := s.refresh(); err != nil {
		log.Printf("[Catalog] Cache refresh failed after mutation of %s: %v (previous snapshot stays active)", article, err)
		return []string{fmt.Sprintf("cache refresh failed: %v", err)}
	}
	return nil
}

// History возвращает версии артикула, новые первыми
func (s *CatalogService) History(article string) ([]versioning.VersionRecord, error) {
	// Для несуществующего артикула история тоже может существовать:
	// запись могла быть создана и удалена, журнал не чистится
	return s.versions.History(article)
}

// Explain возвращает состояние артикула на момент времени с диффом
func (s *CatalogService) Explain(article string, at time.Time) (*versioning.Explanation, error) {
	return s.versions.Explain(article, at)
}

// ChangeLog возвращает последние изменения каталога
func (s *CatalogService) ChangeLog(limit, offset int) ([]versioning.VersionRecord, error) {
	return s.versions.ChangeLog(limit, offset)
}
