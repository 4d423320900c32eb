package event

import "github.com/m04kA/SMC-OpenHouseService/internal/domain"

// ListFilter фильтр выборки событий. Пустой фильтр возвращает все события.
type ListFilter struct {
	AgentID    *int64
	OnlyActive bool
	Statuses   []domain.EventStatus
	Limit      uint64
}
