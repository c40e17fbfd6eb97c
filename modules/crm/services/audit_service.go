package services

import (
	"github.com/sirupsen/logrus"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/pkg/eventbus"
)

// AuditService writes one log line per domain mutation. It is a plain event
// bus subscriber, so the mutating services stay unaware of it.
type AuditService struct {
	log *logrus.Logger
}

func NewAuditService(log *logrus.Logger) *AuditService {
	return &AuditService{log: log}
}

// Register attaches the audit handlers to the bus.
func (s *AuditService) Register(bus eventbus.EventBus) {
	bus.Subscribe(s.onClientCreated)
	bus.Subscribe(s.onClientUpdated)
	bus.Subscribe(s.onClientDeleted)
	bus.Subscribe(s.onPolicyCreated)
	bus.Subscribe(s.onPolicyUpdated)
	bus.Subscribe(s.onPolicyDeleted)
}

func (s *AuditService) clientFields(c client.Client) logrus.Fields {
	return logrus.Fields{
		"client_id": c.ID(),
		"name":      c.Name(),
	}
}

func (s *AuditService) policyFields(p policy.Policy) logrus.Fields {
	return logrus.Fields{
		"policy_id": p.ID(),
		"client_id": p.ClientID(),
		"due_date":  p.DueDate().Format("2006-01-02"),
		"status":    string(p.Status()),
	}
}

func (s *AuditService) onClientCreated(e *client.CreatedEvent) {
	s.log.WithFields(s.clientFields(e.Result)).Info("client created")
}

func (s *AuditService) onClientUpdated(e *client.UpdatedEvent) {
	s.log.WithFields(s.clientFields(e.Result)).Info("client updated")
}

func (s *AuditService) onClientDeleted(e *client.DeletedEvent) {
	s.log.WithFields(s.clientFields(e.Result)).Info("client deleted")
}

func (s *AuditService) onPolicyCreated(e *policy.CreatedEvent) {
	s.log.WithFields(s.policyFields(e.Result)).Info("policy created")
}

func (s *AuditService) onPolicyUpdated(e *policy.UpdatedEvent) {
	s.log.WithFields(s.policyFields(e.Result)).Info("policy updated")
}

func (s *AuditService) onPolicyDeleted(e *policy.DeletedEvent) {
	s.log.WithFields(s.policyFields(e.Result)).Info("policy deleted")
}
