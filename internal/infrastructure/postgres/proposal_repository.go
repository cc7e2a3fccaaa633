package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.ProposalRepository = (*ProposalRepo)(nil)

// ProposalRepo implementación de ProposalRepository (usable con pool o tx).
type ProposalRepo struct {
	q Querier
}

// NewProposalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProposalRepository(q Querier) *ProposalRepo {
	return &ProposalRepo{q: q}
}

const proposalColumns = `
	id, organization_id, COALESCE(client_id::text, ''), COALESCE(lead_id::text, ''),
	title, COALESCE(content, ''), COALESCE(status, 'draft'), COALESCE(amount, 0),
	valid_until, COALESCE(created_by::text, ''), created_at, updated_at`

// Create persiste una nueva propuesta. Cliente y lead son destinos opcionales.
func (r *ProposalRepo) Create(ctx context.Context, p *entity.Proposal) error {
	query := `
		INSERT INTO proposals (id, organization_id, client_id, lead_id, title, content, status, amount, valid_until, created_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.ClientID, p.LeadID, p.Title, p.Content,
		p.Status, p.Amount, p.ValidUntil, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

// GetByID obtiene una propuesta por ID (sin joins).
func (r *ProposalRepo) GetByID(ctx context.Context, id string) (*entity.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	var p entity.Proposal
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OrganizationID, &p.ClientID, &p.LeadID,
		&p.Title, &p.Content, &p.Status, &p.Amount,
		&p.ValidUntil, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return &p, nil
}

// ListByOrganization lista las propuestas del tenant con cliente y lead
// embebidos, más recientes primero.
func (r *ProposalRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Proposal, error) {
	query := `
		SELECT p.id, p.organization_id, COALESCE(p.client_id::text, ''), COALESCE(p.lead_id::text, ''),
		       p.title, COALESCE(p.content, ''), COALESCE(p.status, 'draft'), COALESCE(p.amount, 0),
		       p.valid_until, COALESCE(p.created_by::text, ''), p.created_at, p.updated_at,
		       COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.company, ''),
		       COALESCE(l.id::text, ''), COALESCE(l.name, ''), COALESCE(l.company, '')
		FROM proposals p
		LEFT JOIN clients c ON c.id = p.client_id
		LEFT JOIN leads l ON l.id = p.lead_id
		WHERE p.organization_id = $1
		ORDER BY p.created_at DESC`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Proposal
	for rows.Next() {
		var p entity.Proposal
		var clientID, clientName, clientCompany, leadID, leadName, leadCompany string
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.ClientID, &p.LeadID,
			&p.Title, &p.Content, &p.Status, &p.Amount,
			&p.ValidUntil, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
			&clientID, &clientName, &clientCompany,
			&leadID, &leadName, &leadCompany,
		); err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		if clientID != "" {
			p.Client = &entity.ClientRef{ID: clientID, Name: clientName, Company: clientCompany}
		}
		if leadID != "" {
			p.Lead = &entity.LeadRef{ID: leadID, Name: leadName, Company: leadCompany}
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza una propuesta.
func (r *ProposalRepo) Update(ctx context.Context, p *entity.Proposal) error {
	query := `
		UPDATE proposals
		SET client_id = NULLIF($2, '')::uuid, lead_id = NULLIF($3, '')::uuid, title = $4,
		    content = $5, status = $6, amount = $7, valid_until = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ClientID, p.LeadID, p.Title, p.Content, p.Status, p.Amount, p.ValidUntil, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	return nil
}

// Delete elimina una propuesta por ID.
func (r *ProposalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	return nil
}
