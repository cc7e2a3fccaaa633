package dto

import "time"

// ClientRefResponse referencia embebida de cliente en otras respuestas.
type ClientRefResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// CreateClientRequest alta de cliente. organization_id y created_by se
// estampan en el servidor, nunca se aceptan del caller.
type CreateClientRequest struct {
	Name    string   `json:"name" validate:"required"`
	Company string   `json:"company"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Notes   string   `json:"notes"`
	Tags    []string `json:"tags"`
}

// UpdateClientRequest edición parcial de cliente.
type UpdateClientRequest struct {
	Name    *string  `json:"name"`
	Company *string  `json:"company"`
	Email   *string  `json:"email"`
	Phone   *string  `json:"phone"`
	Address *string  `json:"address"`
	Notes   *string  `json:"notes"`
	Tags    []string `json:"tags"`
}

// ClientResponse cliente expuesto por la API.
type ClientResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Company        string    `json:"company,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
