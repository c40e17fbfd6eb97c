package policy

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renovaplan/renova/pkg/constants"
	"github.com/renovaplan/renova/pkg/serrors"
)

type CreateDTO struct {
	ClientID     string `json:"client_id" validate:"required,uuid4"`
	PolicyNumber string `json:"policy_number"`
	Insurer      string `json:"insurer"`
	Product      string `json:"product"`
	DueDate      string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Premium      string `json:"premium" validate:"omitempty,numeric"`
	IOF          string `json:"iof" validate:"omitempty,numeric"`
	NetPremium   string `json:"net_premium" validate:"omitempty,numeric"`
	Commission   string `json:"commission" validate:"omitempty,numeric"`
	CpfCnpj      string `json:"cpf_cnpj"`
	Plate        string `json:"plate"`
	Status       string `json:"status" validate:"omitempty,oneof=active renewed lost"`
	Notes        string `json:"notes"`
}

func (d *CreateDTO) Normalize() {
	d.ClientID = strings.TrimSpace(d.ClientID)
	d.PolicyNumber = strings.TrimSpace(d.PolicyNumber)
	d.Insurer = strings.TrimSpace(d.Insurer)
	d.Product = strings.TrimSpace(d.Product)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.CpfCnpj = strings.TrimSpace(d.CpfCnpj)
	d.Plate = strings.ToUpper(strings.TrimSpace(d.Plate))
	d.Status = strings.TrimSpace(d.Status)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

func (d *CreateDTO) ToEntity() (Policy, error) {
	clientID, err := uuid.Parse(d.ClientID)
	if err != nil {
		return Policy{}, err
	}
	dueDate, err := time.Parse("2006-01-02", d.DueDate)
	if err != nil {
		return Policy{}, err
	}

	entity := New(clientID, dueDate).
		WithPolicyNumber(d.PolicyNumber).
		WithInsurer(d.Insurer).
		WithProduct(d.Product).
		WithCpfCnpj(d.CpfCnpj).
		WithPlate(d.Plate).
		WithNotes(d.Notes)

	if d.Status != "" {
		entity = entity.WithStatus(Status(d.Status))
	}
	entity = entity.
		WithPremium(parseOptionalDecimal(d.Premium)).
		WithIOF(parseOptionalDecimal(d.IOF)).
		WithNetPremium(parseOptionalDecimal(d.NetPremium)).
		WithCommission(parseOptionalDecimal(d.Commission))

	return entity, nil
}

type UpdateDTO struct {
	PolicyNumber string `json:"policy_number"`
	Insurer      string `json:"insurer"`
	Product      string `json:"product"`
	DueDate      string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Premium      string `json:"premium" validate:"omitempty,numeric"`
	IOF          string `json:"iof" validate:"omitempty,numeric"`
	NetPremium   string `json:"net_premium" validate:"omitempty,numeric"`
	Commission   string `json:"commission" validate:"omitempty,numeric"`
	CpfCnpj      string `json:"cpf_cnpj"`
	Plate        string `json:"plate"`
	Status       string `json:"status" validate:"required,oneof=active renewed lost"`
	Notes        string `json:"notes"`
}

func (d *UpdateDTO) Normalize() {
	d.PolicyNumber = strings.TrimSpace(d.PolicyNumber)
	d.Insurer = strings.TrimSpace(d.Insurer)
	d.Product = strings.TrimSpace(d.Product)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.CpfCnpj = strings.TrimSpace(d.CpfCnpj)
	d.Plate = strings.ToUpper(strings.TrimSpace(d.Plate))
	d.Status = strings.TrimSpace(d.Status)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

func (d *UpdateDTO) Apply(existing Policy) (Policy, error) {
	dueDate, err := time.Parse("2006-01-02", d.DueDate)
	if err != nil {
		return Policy{}, err
	}
	return existing.
		WithPolicyNumber(d.PolicyNumber).
		WithInsurer(d.Insurer).
		WithProduct(d.Product).
		WithDueDate(dueDate).
		WithPremium(parseOptionalDecimal(d.Premium)).
		WithIOF(parseOptionalDecimal(d.IOF)).
		WithNetPremium(parseOptionalDecimal(d.NetPremium)).
		WithCommission(parseOptionalDecimal(d.Commission)).
		WithCpfCnpj(d.CpfCnpj).
		WithPlate(d.Plate).
		WithStatus(Status(d.Status)).
		WithNotes(d.Notes), nil
}

func parseOptionalDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
