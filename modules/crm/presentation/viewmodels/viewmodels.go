package viewmodels

// Client is the JSON shape of a client for API responses.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	CpfCnpj   string `json:"cpf_cnpj,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Policy is the JSON shape of a policy. Money fields carry both the raw
// decimal string and a BRL display string.
type Policy struct {
	ID                string `json:"id"`
	ClientID          string `json:"client_id"`
	ClientName        string `json:"client_name,omitempty"`
	PolicyNumber      string `json:"policy_number,omitempty"`
	Insurer           string `json:"insurer,omitempty"`
	Product           string `json:"product,omitempty"`
	DueDate           string `json:"due_date"`
	Premium           string `json:"premium,omitempty"`
	PremiumDisplay    string `json:"premium_display,omitempty"`
	IOF               string `json:"iof,omitempty"`
	NetPremium        string `json:"net_premium,omitempty"`
	Commission        string `json:"commission,omitempty"`
	CommissionDisplay string `json:"commission_display,omitempty"`
	CpfCnpj           string `json:"cpf_cnpj,omitempty"`
	Plate             string `json:"plate,omitempty"`
	Status            string `json:"status"`
	Notes             string `json:"notes,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// UpcomingBirthday pairs a client with the next occurrence of their birthday.
type UpcomingBirthday struct {
	Client Client `json:"client"`
	Next   string `json:"next"`
}

// Paginated is the standard list envelope.
type Paginated[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
