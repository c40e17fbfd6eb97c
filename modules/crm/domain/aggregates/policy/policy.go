package policy

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusRenewed Status = "renewed"
	StatusLost    Status = "lost"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusRenewed, StatusLost:
		return true
	}
	return false
}

// Policy is a renewal obligation. Due dates carry day precision only.
// Financial derivatives (IOF tax, net premium, commission) are first-class
// typed fields; notes stay free text.
type Policy struct {
	id           uuid.UUID
	clientID     uuid.UUID
	policyNumber string
	insurer      string
	product      string
	dueDate      time.Time
	premium      *decimal.Decimal
	iof          *decimal.Decimal
	netPremium   *decimal.Decimal
	commission   *decimal.Decimal
	cpfCnpj      string
	plate        string
	status       Status
	notes        string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(clientID uuid.UUID, dueDate time.Time) Policy {
	return Policy{
		clientID: clientID,
		dueDate:  truncateToDay(dueDate),
		status:   StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	clientID uuid.UUID,
	policyNumber string,
	insurer string,
	product string,
	dueDate time.Time,
	premium *decimal.Decimal,
	iof *decimal.Decimal,
	netPremium *decimal.Decimal,
	commission *decimal.Decimal,
	cpfCnpj string,
	plate string,
	status Status,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) Policy {
	return Policy{
		id:           id,
		clientID:     clientID,
		policyNumber: policyNumber,
		insurer:      insurer,
		product:      product,
		dueDate:      truncateToDay(dueDate),
		premium:      premium,
		iof:          iof,
		netPremium:   netPremium,
		commission:   commission,
		cpfCnpj:      cpfCnpj,
		plate:        plate,
		status:       status,
		notes:        notes,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (p Policy) ID() uuid.UUID                { return p.id }
func (p Policy) ClientID() uuid.UUID          { return p.clientID }
func (p Policy) PolicyNumber() string         { return p.policyNumber }
func (p Policy) Insurer() string              { return p.insurer }
func (p Policy) Product() string              { return p.product }
func (p Policy) DueDate() time.Time           { return p.dueDate }
func (p Policy) Premium() *decimal.Decimal    { return p.premium }
func (p Policy) IOF() *decimal.Decimal        { return p.iof }
func (p Policy) NetPremium() *decimal.Decimal { return p.netPremium }
func (p Policy) Commission() *decimal.Decimal { return p.commission }
func (p Policy) CpfCnpj() string              { return p.cpfCnpj }
func (p Policy) Plate() string                { return p.plate }
func (p Policy) Status() Status               { return p.status }
func (p Policy) Notes() string                { return p.notes }
func (p Policy) CreatedAt() time.Time         { return p.createdAt }
func (p Policy) UpdatedAt() time.Time         { return p.updatedAt }
func (p Policy) IsZero() bool                 { return p.id == uuid.Nil && p.clientID == uuid.Nil }

func (p Policy) WithPolicyNumber(n string) Policy {
	p.policyNumber = strings.TrimSpace(n)
	return p
}

func (p Policy) WithInsurer(insurer string) Policy {
	p.insurer = strings.TrimSpace(insurer)
	return p
}

func (p Policy) WithProduct(product string) Policy {
	p.product = strings.TrimSpace(product)
	return p
}

func (p Policy) WithDueDate(dueDate time.Time) Policy {
	p.dueDate = truncateToDay(dueDate)
	return p
}

func (p Policy) WithPremium(premium *decimal.Decimal) Policy {
	p.premium = premium
	return p
}

func (p Policy) WithIOF(iof *decimal.Decimal) Policy {
	p.iof = iof
	return p
}

func (p Policy) WithNetPremium(netPremium *decimal.Decimal) Policy {
	p.netPremium = netPremium
	return p
}

func (p Policy) WithCommission(commission *decimal.Decimal) Policy {
	p.commission = commission
	return p
}

func (p Policy) WithCpfCnpj(cpfCnpj string) Policy {
	p.cpfCnpj = strings.TrimSpace(cpfCnpj)
	return p
}

func (p Policy) WithPlate(plate string) Policy {
	p.plate = strings.ToUpper(strings.TrimSpace(plate))
	return p
}

func (p Policy) WithStatus(status Status) Policy {
	p.status = status
	return p
}

func (p Policy) WithNotes(notes string) Policy {
	p.notes = notes
	return p
}

func (p Policy) WithClientID(clientID uuid.UUID) Policy {
	p.clientID = clientID
	return p
}
