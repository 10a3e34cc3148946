package synonyms

import (
	"fmt"
	"log"
	"strings"
	"time"

	"ordermatch/catalog"
	"ordermatch/versioning"
)

// Статусы предложения псевдонима
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Ошибки жизненного цикла предложений
var (
	ErrSuggestionNotFound = fmt.Errorf("synonym suggestion not found")
	ErrSuggestionResolved = fmt.Errorf("synonym suggestion already resolved")
)

// Suggestion предложение псевдонима: хорошее, но не точное совпадение,
// ожидающее решения оператора
type Suggestion struct {
	ID               int64     `json:"id"`
	Alias            string    `json:"alias"`
	ArticleNumber    string    `json:"article_number"`
	Score            int       `json:"score"`
	Status           string    `json:"status"`
	UsageCount       int       `json:"usage_count"`
	FirstSuggestedAt time.Time `json:"first_suggested_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
}

// Store хранилище предложений псевдонимов
type Store interface {
	GetSuggestion(alias, article string) (*Suggestion, error)
	InsertSuggestion(s Suggestion) error
	TouchSuggestion(id int64, score int) error
	UpdateSuggestionStatus(id int64, status string) error
	SuggestionsByStatus(status string) ([]Suggestion, error)
}

// ProductStore доступ к записям каталога для утверждения псевдонимов
type ProductStore interface {
	GetProduct(article string) (catalog.Entry, error)
	AddProductSynonym(article, alias string) error
}

// Manager жизненный цикл предложений псевдонимов: record -> pending ->
// approved | rejected. Отклоненная пара заморожена и больше не предлагается.
type Manager struct {
	store    Store
	products ProductStore
	versions *versioning.Manager
	refresh  func() error
}

// NewManager создает менеджер предложений. refresh вызывается синхронно
// после утверждения псевдонима, чтобы следующий матчинг его увидел.
func NewManager(store Store, products ProductStore, versions *versioning.Manager, refresh func() error) *Manager {
	return &Manager{
		store:    store,
		products: products,
		versions: versions,
		refresh:  refresh,
	}
}

// Record фиксирует кандидата из полосы предложений. Новая пара становится
// pending, существующая увеличивает usage_count, отклоненная игнорируется.
func (m *Manager) Record(alias, article string, score int) error {
	alias = strings.TrimSpace(alias)
	article = catalog.NormalizeArticle(article)
	if alias == "" || article == "" {
		return fmt.Errorf("alias and article are required")
	}

	existing, err := m.store.GetSuggestion(alias, article)
	if err != nil {
		return err
	}

	if existing == nil {
		return m.store.InsertSuggestion(Suggestion{
			Alias:         alias,
			ArticleNumber: article,
			Score:         score,
			Status:        StatusPending,
			UsageCount:    1,
		})
	}

	if existing.Status == StatusRejected {
		// Пара отклонена оператором, повторные появления не копятся
		return nil
	}

	return m.store.TouchSuggestion(existing.ID, score)
}

// ListPending возвращает нерассмотренные предложения, самые частые первыми
func (m *Manager) ListPending() ([]Suggestion, error) {
	return m.store.SuggestionsByStatus(StatusPending)
}

// Approve утверждает предложение: псевдоним сохраняется в записи каталога,
// изменение фиксируется в журнале версий, кэш обновляется синхронно
func (m *Manager) Approve(alias, article, changedBy string) error {
	suggestion, err := m.resolvePending(alias, article)
	if err != nil {
		return err
	}

	if err := m.products.AddProductSynonym(suggestion.ArticleNumber, suggestion.Alias); err != nil {
		return err
	}

	entry, err := m.products.GetProduct(suggestion.ArticleNumber)
	if err != nil {
		return err
	}
	if _, err := m.versions.Append(entry, versioning.ReasonSynonymAdded, changedBy); err != nil {
		return err
	}

	if err := m.store.UpdateSuggestionStatus(suggestion.ID, StatusApproved); err != nil {
		return err
	}

	log.Printf("[Synonyms] Approved alias %q -> %s", suggestion.Alias, suggestion.ArticleNumber)

	// Отказ обновления кэша не отменяет утверждение: псевдоним сохранен
	// и зафиксирован в журнале, матчинг работает с прежним слепком до
	// следующего успешного обновления
	if m.refresh != nil {
		if err := m.refresh(); err != nil {
			log.Printf("[Synonyms] Cache refresh failed after approving %q -> %s: %v",
				suggestion.Alias, suggestion.ArticleNumber, err)
		}
	}

	return nil
}

// Reject отклоняет предложение; пара замораживается и больше не предлагается
func (m *Manager) Reject(alias, article string) error {
	suggestion, err := m.resolvePending(alias, article)
	if err != nil {
		return err
	}

	if err := m.store.UpdateSuggestionStatus(suggestion.ID, StatusRejected); err != nil {
		return err
	}

	log.Printf("[Synonyms] Rejected alias %q -> %s", suggestion.Alias, suggestion.ArticleNumber)
	return nil
}

// resolvePending находит предложение и проверяет, что оно еще не рассмотрено
func (m *Manager) resolvePending(alias, article string) (*Suggestion, error) {
	alias = strings.TrimSpace(alias)
	article = catalog.NormalizeArticle(article)

	suggestion, err := m.store.GetSuggestion(alias, article)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, ErrSuggestionNotFound
	}
	if suggestion.Status != StatusPending {
		return nil, ErrSuggestionResolved
	}

	return suggestion, nil
}
