package models

import "time"

type Client struct {
	ID        string
	Name      string
	Phone     *string
	Email     *string
	CpfCnpj   *string
	Birthday  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Policy mirrors the policies table. Numeric columns are selected as text so
// they survive the trip into arbitrary-precision decimals.
type Policy struct {
	ID           string
	ClientID     string
	PolicyNumber *string
	Insurer      *string
	Product      *string
	DueDate      time.Time
	Premium      *string
	IOF          *string
	NetPremium   *string
	Commission   *string
	CpfCnpj      *string
	Plate        *string
	Status       string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
