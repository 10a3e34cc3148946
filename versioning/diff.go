package versioning

import (
	"strconv"
	"strings"
)

// FieldChange изменение одного поля между двумя состояниями записи
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Diff сравнивает два состояния записи и возвращает список изменившихся
// полей. Артикул не сравнивается: он неизменяем.
func Diff(before, after VersionRecord) []FieldChange {
	var changes []FieldChange

	appendChange := func(field, b, a string) {
		if b != a {
			changes = append(changes, FieldChange{Field: field, Before: b, After: a})
		}
	}

	appendChange("name", before.Name, after.Name)
	appendChange("category", before.Category, after.Category)
	appendChange("is_available", strconv.FormatBool(before.Available), strconv.FormatBool(after.Available))
	appendChange("is_discontinued", strconv.FormatBool(before.Discontinued), strconv.FormatBool(after.Discontinued))
	appendChange("synonyms", joinSynonyms(before.Synonyms), joinSynonyms(after.Synonyms))

	return changes
}

func joinSynonyms(synonyms []string) string {
	return strings.Join(synonyms, ", ")
}
