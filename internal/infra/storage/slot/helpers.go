package slot

import (
	"sort"
	"strings"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func sortByStart(slots []*domain.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})
}
