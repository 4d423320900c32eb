package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor_CanManage(t *testing.T) {
	admin := Actor{AgentID: 1, Role: RoleAdmin}
	agent := Actor{AgentID: 2, Role: RoleAgent}
	collaborator := Actor{AgentID: 3, Role: RoleCollaborator}

	assert.True(t, admin.CanManage(99))
	assert.True(t, agent.CanManage(2))
	assert.False(t, agent.CanManage(3))
	assert.True(t, collaborator.CanManage(3))
	assert.False(t, collaborator.CanManage(2))
	assert.False(t, Actor{Role: RoleAgent}.CanManage(0))
}

func TestOpenHouseEvent_CanTransitionTo(t *testing.T) {
	e := &OpenHouseEvent{Status: EventStatusDraft}
	assert.True(t, e.CanTransitionTo(EventStatusPublished))
	assert.True(t, e.CanTransitionTo(EventStatusCancelled))
	assert.False(t, e.CanTransitionTo(EventStatusCompleted))

	e.Status = EventStatusPublished
	assert.True(t, e.CanTransitionTo(EventStatusCompleted))
	assert.False(t, e.CanTransitionTo(EventStatusDraft))

	e.Status = EventStatusCancelled
	assert.False(t, e.CanTransitionTo(EventStatusPublished))
}

func TestIsAllowedSlotDuration(t *testing.T) {
	assert.True(t, IsAllowedSlotDuration(15))
	assert.True(t, IsAllowedSlotDuration(30))
	assert.False(t, IsAllowedSlotDuration(45))
	assert.False(t, IsAllowedSlotDuration(0))
}
