package parsing

import (
	"strings"

	"golang.org/x/text/cases"
)

// Role семантическая роль колонки в таблице заказа
type Role string

// Роли колонок
const (
	RoleProduct  Role = "product"
	RoleArticle  Role = "article"
	RoleQuantity Role = "quantity"
)

// Strength сила совпадения заголовка с ключевым словом
type Strength int

// Уровни силы совпадения
const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthStrong
)

// Assignment привязка роли к индексу колонки
type Assignment struct {
	Index    int      // Индекс колонки (-1 если роль не назначена)
	Strength Strength // Сила совпадения
}

// ColumnMapping результат классификации строки заголовков
type ColumnMapping struct {
	Product  Assignment
	Article  Assignment
	Quantity Assignment
}

// Assigned сообщает, назначена ли роль хоть какой-то колонке
func (a Assignment) Assigned() bool {
	return a.Index >= 0 && a.Strength > StrengthNone
}

// Наборы ключевых слов по локалям (английский, немецкий, русский).
// Сильные ключи требуют точного совпадения с нормализованным заголовком,
// слабые срабатывают по вхождению подстроки.
var (
	strongKeywords = map[Role][]string{
		RoleProduct:  {"product", "item", "name", "produkt", "artikel", "товар", "наименование"},
		RoleArticle:  {"article", "sku", "code", "artikelnummer", "artikelnr", "артикул"},
		RoleQuantity: {"quantity", "qty", "amount", "menge", "anzahl", "количество", "кол-во"},
	}

	weakKeywords = map[Role][]string{
		RoleProduct:  {"description", "desc", "title", "beschreibung", "описание"},
		RoleArticle:  {"id", "number", "nr", "no", "номер"},
		RoleQuantity: {"count", "num", "pieces", "stück", "stk", "шт"},
	}
)

// headerFolder Unicode-свертка регистра, корректная для всех локалей заголовков
var headerFolder = cases.Fold()

// normalizeHeader приводит заголовок к канонической форме для сравнения
func normalizeHeader(header string) string {
	folded := headerFolder.String(strings.TrimSpace(header))
	return strings.Join(strings.Fields(folded), " ")
}

// ClassifyColumns сопоставляет заголовки колонок семантическим ролям.
// Правила:
//   - сильное совпадение всегда перекрывает слабое или пустое назначение;
//   - сильное совпадение никогда не перекрывается более поздним слабым;
//   - при нескольких сильных совпадениях одной роли побеждает самая левая
//     колонка (последующие сильные игнорируются);
//   - слабое совпадение записывается только если роль еще не назначена.
func ClassifyColumns(headers []string) ColumnMapping {
	mapping := ColumnMapping{
		Product:  Assignment{Index: -1},
		Article:  Assignment{Index: -1},
		Quantity: Assignment{Index: -1},
	}

	assignments := map[Role]*Assignment{
		RoleProduct:  &mapping.Product,
		RoleArticle:  &mapping.Article,
		RoleQuantity: &mapping.Quantity,
	}

	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if normalized == "" {
			continue
		}

		for role, assignment := range assignments {
			if assignment.Strength < StrengthStrong && matchesStrong(role, normalized) {
				assignment.Index = idx
				assignment.Strength = StrengthStrong
				continue
			}
			if assignment.Strength == StrengthNone && matchesWeak(role, normalized) {
				assignment.Index = idx
				assignment.Strength = StrengthWeak
			}
		}
	}

	return mapping
}

// matchesStrong проверяет точное совпадение заголовка с сильным ключом роли
func matchesStrong(role Role, normalized string) bool {
	for _, keyword := range strongKeywords[role] {
		if normalized == keyword {
			return true
		}
	}
	return false
}

// matchesWeak проверяет вхождение слабого ключа роли в заголовок
func matchesWeak(role Role, normalized string) bool {
	for _, keyword := range weakKeywords[role] {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}
