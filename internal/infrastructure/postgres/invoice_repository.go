package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, organization_id, client_id, COALESCE(project_id::text, ''), invoice_number,
	COALESCE(status, 'draft'), amount, COALESCE(tax_amount, 0), total_amount,
	issue_date, due_date, paid_date, COALESCE(notes, ''), COALESCE(created_by::text, ''),
	created_at, updated_at`

// Create persiste una nueva factura (total_amount ya recalculado en dominio).
// ErrDuplicate si el invoice_number ya existe en la organización.
func (r *InvoiceRepo) Create(ctx context.Context, i *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, organization_id, client_id, project_id, invoice_number, status, amount, tax_amount, total_amount, issue_date, due_date, paid_date, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.OrganizationID, i.ClientID, i.ProjectID, i.InvoiceNumber, i.Status,
		i.Amount, i.TaxAmount, i.TotalAmount, i.IssueDate, i.DueDate, i.PaidDate,
		i.Notes, i.CreatedBy, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID (sin joins).
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	i, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return i, nil
}

// ListByOrganization lista las facturas del tenant con cliente y proyecto
// embebidos, más recientes primero.
func (r *InvoiceRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Invoice, error) {
	query := `
		SELECT i.id, i.organization_id, i.client_id, COALESCE(i.project_id::text, ''), i.invoice_number,
		       COALESCE(i.status, 'draft'), i.amount, COALESCE(i.tax_amount, 0), i.total_amount,
		       i.issue_date, i.due_date, i.paid_date, COALESCE(i.notes, ''), COALESCE(i.created_by::text, ''),
		       i.created_at, i.updated_at,
		       COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.company, ''),
		       COALESCE(p.id::text, ''), COALESCE(p.name, '')
		FROM invoices i
		LEFT JOIN clients c ON c.id = i.client_id
		LEFT JOIN projects p ON p.id = i.project_id
		WHERE i.organization_id = $1
		ORDER BY i.created_at DESC`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var i entity.Invoice
		var clientID, clientName, clientCompany, projID, projName string
		if err := rows.Scan(
			&i.ID, &i.OrganizationID, &i.ClientID, &i.ProjectID, &i.InvoiceNumber,
			&i.Status, &i.Amount, &i.TaxAmount, &i.TotalAmount,
			&i.IssueDate, &i.DueDate, &i.PaidDate, &i.Notes, &i.CreatedBy,
			&i.CreatedAt, &i.UpdatedAt,
			&clientID, &clientName, &clientCompany,
			&projID, &projName,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		if clientID != "" {
			i.Client = &entity.ClientRef{ID: clientID, Name: clientName, Company: clientCompany}
		}
		if projID != "" {
			i.Project = &entity.ProjectRef{ID: projID, Name: projName}
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// Update actualiza una factura (total_amount ya recalculado en dominio).
func (r *InvoiceRepo) Update(ctx context.Context, i *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id = $2, project_id = NULLIF($3, '')::uuid, invoice_number = $4, status = $5,
		    amount = $6, tax_amount = $7, total_amount = $8, issue_date = $9, due_date = $10,
		    paid_date = $11, notes = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.ClientID, i.ProjectID, i.InvoiceNumber, i.Status,
		i.Amount, i.TaxAmount, i.TotalAmount, i.IssueDate, i.DueDate,
		i.PaidDate, i.Notes, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var i entity.Invoice
	err := row.Scan(
		&i.ID, &i.OrganizationID, &i.ClientID, &i.ProjectID, &i.InvoiceNumber,
		&i.Status, &i.Amount, &i.TaxAmount, &i.TotalAmount,
		&i.IssueDate, &i.DueDate, &i.PaidDate, &i.Notes, &i.CreatedBy,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
