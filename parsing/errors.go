package parsing

import "fmt"

// Коды причин ошибок разбора строки
const (
	ReasonNoPatternMatch     = "no_pattern_match"
	ReasonAmbiguousDelimiter = "ambiguous_delimiter"
)

// Коды причин ошибок валидации количества
const (
	ReasonNegativeQuantity    = "negative_quantity"
	ReasonZeroQuantity        = "zero_quantity"
	ReasonFractionalQuantity  = "fractional_between_zero_and_one"
	ReasonZeroAfterRounding   = "zero_after_rounding"
	ReasonInvalidNumberFormat = "invalid_number_format"
	ReasonQuantityTooLarge    = "quantity_too_large"
)

// ParseError ошибка разбора строки заказа
type ParseError struct {
	Reason string // Код причины (no_pattern_match, ambiguous_delimiter)
	Line   string // Исходная строка
}

// Error реализует интерфейс error
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (%s): %q", e.Reason, e.Line)
}

// ValidationError ошибка валидации количества
type ValidationError struct {
	Reason string // Код причины
	Raw    string // Исходное значение количества
}

// Error реализует интерфейс error
func (e *ValidationError) Error() string {
	return fmt.Sprintf("quantity validation error (%s): %q", e.Reason, e.Raw)
}
