package entity

import "time"

// Client representa un cliente del CRM (scoped por organización).
type Client struct {
	ID             string
	OrganizationID string
	Name           string
	Company        string
	Email          string
	Phone          string
	Address        string
	Notes          string
	Tags           []string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClientRef referencia embebida de cliente en listados de otras entidades
// (proyectos, facturas, propuestas).
type ClientRef struct {
	ID      string
	Name    string
	Company string
}
