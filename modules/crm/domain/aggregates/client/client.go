package client

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the identity entity of the brokerage: every policy belongs to
// exactly one client. The birthday year is kept but only month/day drive the
// recurring birthday logic.
type Client struct {
	id        uuid.UUID
	name      string
	phone     string
	email     string
	cpfCnpj   string
	birthday  *time.Time
	createdAt time.Time
	updatedAt time.Time
}

func New(name string) Client {
	return Client{
		name: strings.TrimSpace(name),
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	phone string,
	email string,
	cpfCnpj string,
	birthday *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) Client {
	return Client{
		id:        id,
		name:      strings.TrimSpace(name),
		phone:     phone,
		email:     email,
		cpfCnpj:   cpfCnpj,
		birthday:  birthday,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c Client) ID() uuid.UUID        { return c.id }
func (c Client) Name() string         { return c.name }
func (c Client) Phone() string        { return c.phone }
func (c Client) Email() string        { return c.email }
func (c Client) CpfCnpj() string      { return c.cpfCnpj }
func (c Client) Birthday() *time.Time { return c.birthday }
func (c Client) CreatedAt() time.Time { return c.createdAt }
func (c Client) UpdatedAt() time.Time { return c.updatedAt }
func (c Client) IsZero() bool         { return c.id == uuid.Nil && c.name == "" }

func (c Client) WithPhone(phone string) Client {
	c.phone = strings.TrimSpace(phone)
	return c
}

func (c Client) WithEmail(email string) Client {
	c.email = strings.TrimSpace(email)
	return c
}

func (c Client) WithCpfCnpj(cpfCnpj string) Client {
	c.cpfCnpj = strings.TrimSpace(cpfCnpj)
	return c
}

func (c Client) WithBirthday(birthday *time.Time) Client {
	c.birthday = birthday
	return c
}

func (c Client) WithName(name string) Client {
	c.name = strings.TrimSpace(name)
	return c
}
