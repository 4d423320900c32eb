package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

func TestListQuery(t *testing.T) {
	t.Run("public listing", func(t *testing.T) {
		query, args, err := listQuery(ListFilter{
			OnlyActive: true,
			Statuses:   []domain.EventStatus{domain.EventStatusPublished},
			Limit:      100,
		}).ToSql()
		require.NoError(t, err)

		assert.Contains(t, query, "WHERE is_active = $1 AND status IN ($2)")
		assert.Contains(t, query, "ORDER BY event_date DESC, start_time DESC, id DESC")
		assert.Contains(t, query, "LIMIT 100")
		assert.NotContains(t, query, "agent_id =")
		assert.Equal(t, []interface{}{true, domain.EventStatusPublished}, args)
	})

	t.Run("agent scope without limit", func(t *testing.T) {
		agentID := int64(7)
		query, args, err := listQuery(ListFilter{AgentID: &agentID}).ToSql()
		require.NoError(t, err)

		assert.Contains(t, query, "WHERE agent_id = $1")
		assert.NotContains(t, query, "is_active")
		assert.NotContains(t, query, "LIMIT")
		assert.Equal(t, []interface{}{int64(7)}, args)
	})
}
