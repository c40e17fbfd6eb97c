package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/pkg/eventbus"
)

func TestAuditService(t *testing.T) {
	log, hook := test.NewNullLogger()
	bus := eventbus.NewEventPublisher(log)
	NewAuditService(log).Register(bus)

	now := time.Now()
	c := client.Hydrate(uuid.New(), "João Silva", "", "joao@example.com", "", nil, now, now)
	bus.Publish(&client.CreatedEvent{Result: c})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "client created", entry.Message)
	assert.Equal(t, c.ID(), entry.Data["client_id"])
	assert.Equal(t, "João Silva", entry.Data["name"])

	due := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	p := policy.New(c.ID(), due).WithInsurer("Porto Seguro")
	bus.Publish(&policy.CreatedEvent{Result: p})

	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "policy created", entry.Message)
	assert.Equal(t, c.ID(), entry.Data["client_id"])
	assert.Equal(t, "2027-03-15", entry.Data["due_date"])

	bus.Publish(&policy.DeletedEvent{Result: p})
	assert.Equal(t, "policy deleted", hook.LastEntry().Message)

	require.Len(t, hook.Entries, 3)
}
