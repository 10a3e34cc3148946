package parsing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Коды предупреждений валидации количества
const (
	WarningDecimalRounded = "decimal_rounded"
	WarningHighQuantity   = "high_quantity"
	WarningLowQuantity    = "low_quantity"
)

// highQuantityThreshold порог подозрительно большого количества
const highQuantityThreshold = 100

// maxQuantity потолок количества в одной строке заказа. Значения выше
// отклоняются до преобразования в int: float64 за пределами диапазона
// int переполняется в отрицательное число.
const maxQuantity = 1_000_000

// ValidateQuantity нормализует и валидирует сырой текст количества.
// Порядок политики фиксирован:
//  1. значение <= 0 отклоняется;
//  2. дробное значение в интервале (0, 1) отклоняется ДО любого округления,
//     чтобы оно не превратилось молча в 0;
//  3. значение выше потолка maxQuantity отклоняется до преобразования в int;
//  4. остальные значения округляются до ближайшего целого (половина вверх);
//  5. округленный результат повторно проверяется на ноль — защитный
//     инвариант, а не мертвый код;
//  6. при нецелой дробной части добавляется предупреждение с парой
//     исходное -> округленное.
func ValidateQuantity(raw string) (int, []string, error) {
	var warnings []string

	normalized := strings.TrimSpace(raw)
	// Допускаем запятую как десятичный разделитель
	normalized = strings.ReplaceAll(normalized, ",", ".")

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, nil, &ValidationError{Reason: ReasonInvalidNumberFormat, Raw: raw}
	}

	if value < 0 {
		return 0, nil, &ValidationError{Reason: ReasonNegativeQuantity, Raw: raw}
	}
	if value == 0 {
		return 0, nil, &ValidationError{Reason: ReasonZeroQuantity, Raw: raw}
	}
	if value < 1 {
		return 0, nil, &ValidationError{Reason: ReasonFractionalQuantity, Raw: raw}
	}
	if value > maxQuantity {
		return 0, nil, &ValidationError{Reason: ReasonQuantityTooLarge, Raw: raw}
	}

	rounded := int(math.Floor(value + 0.5))

	if value != math.Trunc(value) {
		warnings = append(warnings, fmt.Sprintf("%s: %v → %d", WarningDecimalRounded, value, rounded))
	}

	// Повторная проверка нуля после округления. Шаг 2 уже исключил интервал
	// (0, 1), но инвариант проверяется на округленном значении отдельно.
	if rounded == 0 {
		return 0, nil, &ValidationError{Reason: ReasonZeroAfterRounding, Raw: raw}
	}

	if rounded > highQuantityThreshold {
		warnings = append(warnings, fmt.Sprintf("%s: %d", WarningHighQuantity, rounded))
	}
	if rounded >= 1 && rounded <= 2 {
		warnings = append(warnings, fmt.Sprintf("%s: %d", WarningLowQuantity, rounded))
	}

	return rounded, warnings, nil
}
