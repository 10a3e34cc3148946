package catalog

import (
	"fmt"
	"log"
	"sync"
)

// Cache версионированный кэш каталога. Единственный писатель — Refresh,
// читатели берут ссылку на текущий слепок в начале операции и работают
// только с ней: долгий матчинг никогда не видит смесь старого и нового
// состояния. Обновление собирает новый слепок в стороне и публикует его
// одной атомарной заменой ссылки.
type Cache struct {
	refreshMu sync.Mutex   // Сериализует писателей; сборка идет под ним
	mu        sync.RWMutex // Защищает только публикацию ссылки
	current   *Snapshot
	version   int64
}

// NewCache создает пустой кэш каталога (версия 0, пустой слепок)
func NewCache() *Cache {
	return &Cache{
		current: buildSnapshot(0, nil),
	}
}

// Refresh собирает новый слепок из полного набора записей и атомарно
// публикует его. Сборка выполняется вне read-write блокировки: читатели
// продолжают работать с прежним слепком на всем ее протяжении, блокировка
// берется только на замену ссылки. При ошибке сборки прежний слепок
// остается активным.
func (c *Cache) Refresh(entries []Entry) (SnapshotInfo, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// version меняется только под refreshMu, читать можно без c.mu
	version := c.version + 1
	snap := buildSnapshot(version, entries)
	if len(entries) > 0 && len(snap.entries) == 0 {
		// Ни одна запись не прошла в индексы: считаем сборку неудачной,
		// прежний слепок остается активным
		return c.Snapshot().Info(), fmt.Errorf("cache refresh produced empty snapshot from %d entries", len(entries))
	}

	c.mu.Lock()
	c.version = version
	c.current = snap
	c.mu.Unlock()

	info := snap.Info()
	log.Printf("[Cache] Refreshed: version %d, %d entries, %d synonyms, %d unique names",
		info.Version, info.Entries, info.Synonyms, info.UniqueNames)

	return info, nil
}

// Snapshot возвращает текущий опубликованный слепок. Вызывающий обязан
// использовать полученную ссылку на протяжении всей операции.
func (c *Cache) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Info возвращает сводку по текущему слепку
func (c *Cache) Info() SnapshotInfo {
	return c.Snapshot().Info()
}
