package versioning

import (
	"time"

	"ordermatch/catalog"
)

// Причины изменений в журнале версий
const (
	ReasonCreated      = "created"
	ReasonUpdated      = "updated"
	ReasonSynonymAdded = "synonym_added"
	ReasonSoftDeleted  = "soft_deleted"
	ReasonRestored     = "restored"
	ReasonImported     = "imported"
)

// VersionRecord запись журнала версий: полное состояние записи каталога
// на момент изменения. Журнал append-only, записи не редактируются.
type VersionRecord struct {
	VersionID     int64     `json:"version_id"`
	ArticleNumber string    `json:"article_number"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Available     bool      `json:"is_available"`
	Discontinued  bool      `json:"is_discontinued"`
	Synonyms      []string  `json:"synonyms"`
	ChangeReason  string    `json:"change_reason"`
	ChangedBy     string    `json:"changed_by,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// RecordFromEntry строит запись журнала из текущего состояния записи каталога
func RecordFromEntry(entry catalog.Entry, reason, changedBy string) VersionRecord {
	return VersionRecord{
		ArticleNumber: entry.ArticleNumber,
		Name:          entry.Name,
		Category:      entry.Category,
		Available:     entry.Available,
		Discontinued:  entry.Discontinued,
		Synonyms:      append([]string(nil), entry.Synonyms...),
		ChangeReason:  reason,
		ChangedBy:     changedBy,
	}
}

// Entry восстанавливает состояние записи каталога из записи журнала
func (r *VersionRecord) Entry() catalog.Entry {
	return catalog.Entry{
		ArticleNumber: r.ArticleNumber,
		Name:          r.Name,
		Category:      r.Category,
		Available:     r.Available,
		Discontinued:  r.Discontinued,
		Synonyms:      append([]string(nil), r.Synonyms...),
		UpdatedAt:     r.RecordedAt,
	}
}
