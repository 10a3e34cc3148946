package services

import (
	"fmt"

	"ordermatch/importer"
	"ordermatch/matching"
	"ordermatch/orders"
)

// OrderService обработка заказов: одиночный матчинг, текстовые заказы,
// загруженные файлы
type OrderService struct {
	engine    *matching.Engine
	processor *orders.Processor
}

// NewOrderService создает сервис обработки заказов
func NewOrderService(engine *matching.Engine, processor *orders.Processor) *OrderService {
	return &OrderService{
		engine:    engine,
		processor: processor,
	}
}

// MatchOne матчит одно наименование (и опциональный артикул-подсказку)
func (s *OrderService) MatchOne(name, article string) matching.Result {
	return s.engine.Match(name, article)
}

// ProcessText обрабатывает текстовый заказ построчно
func (s *OrderService) ProcessText(text string) *orders.OrderResult {
	return s.processor.ProcessText(text)
}

// ProcessUpload обрабатывает загруженный файл заказа
func (s *OrderService) ProcessUpload(filename string, data []byte) (*orders.OrderResult, error) {
	if !importer.IsSupported(filename) {
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}

	file, err := importer.FromBytes(filename, data)
	if err != nil {
		return nil, err
	}

	switch file.Kind {
	case importer.KindText:
		return s.processor.ProcessText(file.Text), nil
	case importer.KindTable:
		return s.processor.ProcessTable(file.Headers, file.Rows)
	default:
		return nil, fmt.Errorf("unknown order file kind: %s", file.Kind)
	}
}
