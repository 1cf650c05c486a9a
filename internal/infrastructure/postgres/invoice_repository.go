package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/posadmin-api/internal/domain"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `
	id, owner_id, invoice_number, status, invoice_date, due_date,
	billed_name, billed_email, billed_phone, billed_address,
	discount, vat_inclusive, note, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura. Número repetido -> domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.OwnerID, invoice.InvoiceNumber, invoice.Status,
		invoice.InvoiceDate, invoice.DueDate,
		invoice.BilledName, invoice.BilledEmail, invoice.BilledPhone, invoice.BilledAddress,
		invoice.Discount, invoice.VATInclusive, invoice.Note,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", invoice.InvoiceNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una fila con su items_data JSONB.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	data, err := json.Marshal(item.ItemsData)
	if err != nil {
		return fmt.Errorf("marshal items_data: %w", err)
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, items_data)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, item.ID, item.InvoiceID, item.Position, data); err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID, sin filas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID filas de la factura en orden de posición.
func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	byInvoice, err := r.itemsFor(ctx, []string{invoiceID})
	if err != nil {
		return nil, err
	}
	return byInvoice[invoiceID], nil
}

// List página de facturas filtradas, con sus filas cargadas en una segunda consulta.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	where, args := invoiceFilterClause(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		fmt.Sprintf(` ORDER BY invoice_date DESC, invoice_number DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	var ids []string
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	if len(ids) == 0 {
		return list, total, nil
	}

	byInvoice, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, inv := range list {
		inv.Items = byInvoice[inv.ID]
	}
	return list, total, nil
}

// UpdateStatus cambia solo el estado y updated_at.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) itemsFor(ctx context.Context, invoiceIDs []string) (map[string][]entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, position, items_data
		FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY invoice_id, position`
	rows, err := r.q.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.InvoiceItem, len(invoiceIDs))
	for rows.Next() {
		var it entity.InvoiceItem
		var raw []byte
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &raw); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		if it.ItemsData, err = decodeItemsData(raw); err != nil {
			return nil, fmt.Errorf("invoice item %s: %w", it.ID, err)
		}
		out[it.InvoiceID] = append(out[it.InvoiceID], it)
	}
	return out, rows.Err()
}

// decodeItemsData tolera NULL y claves ausentes: quedan como listas vacías.
func decodeItemsData(raw []byte) (entity.ItemsData, error) {
	var data entity.ItemsData
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decode items_data: %w", err)
	}
	return data, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.InvoiceNumber, &inv.Status, &inv.InvoiceDate, &inv.DueDate,
		&inv.BilledName, &inv.BilledEmail, &inv.BilledPhone, &inv.BilledAddress,
		&inv.Discount, &inv.VATInclusive, &inv.Note, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// invoiceFilterClause arma el WHERE con placeholders numerados desde $1.
func invoiceFilterClause(f repository.InvoiceFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(invoice_number ILIKE $%d OR billed_name ILIKE $%d)", n, n))
	}
	if !f.From.IsZero() {
		add("invoice_date >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("invoice_date <= $%d", f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
