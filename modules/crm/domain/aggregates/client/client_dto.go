package client

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/renovaplan/renova/pkg/constants"
	"github.com/renovaplan/renova/pkg/serrors"
)

type CreateDTO struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	CpfCnpj  string `json:"cpf_cnpj"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	d.CpfCnpj = strings.TrimSpace(d.CpfCnpj)
	d.Birthday = strings.TrimSpace(d.Birthday)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

func (d *CreateDTO) ToEntity() Client {
	entity := New(d.Name).
		WithPhone(d.Phone).
		WithEmail(d.Email).
		WithCpfCnpj(d.CpfCnpj)
	if d.Birthday != "" {
		if t, err := time.Parse("2006-01-02", d.Birthday); err == nil {
			entity = entity.WithBirthday(&t)
		}
	}
	return entity
}

type UpdateDTO struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	CpfCnpj  string `json:"cpf_cnpj"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	d.CpfCnpj = strings.TrimSpace(d.CpfCnpj)
	d.Birthday = strings.TrimSpace(d.Birthday)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

// Apply overlays the DTO onto an existing entity, preserving its identity.
func (d *UpdateDTO) Apply(existing Client) Client {
	entity := existing.
		WithName(d.Name).
		WithPhone(d.Phone).
		WithEmail(d.Email).
		WithCpfCnpj(d.CpfCnpj)
	if d.Birthday == "" {
		return entity.WithBirthday(nil)
	}
	if t, err := time.Parse("2006-01-02", d.Birthday); err == nil {
		entity = entity.WithBirthday(&t)
	}
	return entity
}
