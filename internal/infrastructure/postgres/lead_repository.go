package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `
	id, organization_id, name, COALESCE(company, ''), COALESCE(email, ''),
	COALESCE(phone, ''), COALESCE(source, ''), COALESCE(status, 'new'), COALESCE(score, 0),
	COALESCE(notes, ''), COALESCE(assigned_to::text, ''), COALESCE(created_by::text, ''),
	created_at, updated_at`

// Create persiste un nuevo lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (id, organization_id, name, company, email, phone, source, status, score, notes, assigned_to, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, '')::uuid, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.OrganizationID, l.Name, l.Company, l.Email, l.Phone, l.Source,
		l.Status, l.Score, l.Notes, l.AssignedTo, l.CreatedBy, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead por ID.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	l, err := scanLead(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// ListByOrganization lista los leads del tenant, más recientes primero.
func (r *LeadRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE organization_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update actualiza un lead.
func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads
		SET name = $2, company = $3, email = $4, phone = $5, source = $6, status = $7,
		    score = $8, notes = $9, assigned_to = NULLIF($10, '')::uuid, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Name, l.Company, l.Email, l.Phone, l.Source, l.Status,
		l.Score, l.Notes, l.AssignedTo, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

// Delete elimina un lead por ID.
func (r *LeadRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID, &l.OrganizationID, &l.Name, &l.Company, &l.Email,
		&l.Phone, &l.Source, &l.Status, &l.Score,
		&l.Notes, &l.AssignedTo, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
