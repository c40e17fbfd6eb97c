package persistence

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/modules/crm/infrastructure/persistence/models"
	"github.com/renovaplan/renova/pkg/composables"
	"github.com/renovaplan/renova/pkg/repo"
)

const (
	policyColumns = `
            p.id,
            p.client_id,
            p.policy_number,
            p.insurer,
            p.product,
            p.due_date,
            p.premium::text,
            p.iof::text,
            p.net_premium::text,
            p.commission::text,
            p.cpf_cnpj,
            p.plate,
            p.status,
            p.notes,
            p.created_at,
            p.updated_at`

	policyFindQuery = `SELECT` + policyColumns + `
        FROM policies p`

	policyWithClientQuery = `SELECT` + policyColumns + `,
            c.id,
            c.name,
            c.phone,
            c.email,
            c.cpf_cnpj,
            c.birthday,
            c.created_at,
            c.updated_at
        FROM policies p
        LEFT JOIN clients c ON c.id = p.client_id`

	policyCountQuery = `SELECT COUNT(p.id) FROM policies p`

	policyInsertQuery = `
        INSERT INTO policies (
            client_id, policy_number, insurer, product, due_date,
            premium, iof, net_premium, commission, cpf_cnpj, plate, status, notes
        )
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9::numeric, $10, $11, $12, $13)
        RETURNING id, client_id, policy_number, insurer, product, due_date,
            premium::text, iof::text, net_premium::text, commission::text,
            cpf_cnpj, plate, status, notes, created_at, updated_at`

	policyBatchInsertQuery = `INSERT INTO policies (
            client_id, policy_number, insurer, product, due_date,
            premium, iof, net_premium, commission, cpf_cnpj, plate, status, notes
        ) VALUES`

	policyBatchInsertReturning = ` RETURNING id, client_id, policy_number, insurer, product, due_date,
            premium::text, iof::text, net_premium::text, commission::text,
            cpf_cnpj, plate, status, notes, created_at, updated_at`

	policyUpdateQuery = `
        UPDATE policies
        SET policy_number = $2,
            insurer = $3,
            product = $4,
            due_date = $5,
            premium = $6::numeric,
            iof = $7::numeric,
            net_premium = $8::numeric,
            commission = $9::numeric,
            cpf_cnpj = $10,
            plate = $11,
            status = $12,
            notes = $13,
            updated_at = now()
        WHERE id = $1
        RETURNING id, client_id, policy_number, insurer, product, due_date,
            premium::text, iof::text, net_premium::text, commission::text,
            cpf_cnpj, plate, status, notes, created_at, updated_at`

	policyDeleteQuery    = `DELETE FROM policies WHERE id = $1`
	policyDeleteAllQuery = `DELETE FROM policies`
)

type PgPolicyRepository struct{}

func NewPolicyRepository() policy.Repository {
	return &PgPolicyRepository{}
}

func (g *PgPolicyRepository) GetPaginated(ctx context.Context, params *policy.FindParams) ([]policy.WithClient, int64, error) {
	if params == nil {
		params = &policy.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	var conditions []string
	var args []interface{}
	n := 1
	if params.Status != "" {
		conditions = append(conditions, "p.status = $"+itoa(n))
		args = append(args, string(params.Status))
		n++
	}
	if params.ClientID != uuid.Nil {
		conditions = append(conditions, "p.client_id = $"+itoa(n))
		args = append(args, params.ClientID.String())
		n++
	}
	if params.DueFrom != nil {
		conditions = append(conditions, "p.due_date >= $"+itoa(n))
		args = append(args, *params.DueFrom)
		n++
	}
	if params.DueTo != nil {
		conditions = append(conditions, "p.due_date <= $"+itoa(n))
		args = append(args, *params.DueTo)
		n++
	}

	countQuery := repo.Join(policyCountQuery, repo.JoinWhere(conditions...))
	var total int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count policies")
	}

	query := repo.Join(
		policyWithClientQuery,
		repo.JoinWhere(conditions...),
		"ORDER BY p.due_date ASC, p.created_at ASC",
		"LIMIT", itoa(limit),
		"OFFSET", itoa(offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query policies")
	}
	defer rows.Close()

	out, err := scanPoliciesWithClient(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (g *PgPolicyRepository) GetAllWithClient(ctx context.Context, limit int) ([]policy.WithClient, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10000
	}
	query := repo.Join(policyWithClientQuery, "ORDER BY p.created_at ASC LIMIT", itoa(limit))
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query policies with clients")
	}
	defer rows.Close()

	return scanPoliciesWithClient(rows)
}

func (g *PgPolicyRepository) GetByID(ctx context.Context, id uuid.UUID) (policy.Policy, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return policy.Policy{}, err
	}

	row := tx.QueryRow(ctx, repo.Join(policyFindQuery, "WHERE p.id = $1"), id.String())
	p, err := scanPolicy(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return policy.Policy{}, policy.ErrNotFound
		}
		return policy.Policy{}, errors.Wrap(err, "get policy by id")
	}
	return p, nil
}

func (g *PgPolicyRepository) Create(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return policy.Policy{}, err
	}

	row := tx.QueryRow(ctx, policyInsertQuery, policyInsertArgs(p)...)
	created, err := scanPolicy(row)
	if err != nil {
		return policy.Policy{}, errors.Wrap(err, "create policy")
	}
	return created, nil
}

func (g *PgPolicyRepository) CreateMany(ctx context.Context, policies []policy.Policy) ([]policy.Policy, error) {
	if len(policies) == 0 {
		return nil, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	values := make([][]interface{}, 0, len(policies))
	for _, p := range policies {
		values = append(values, policyInsertArgs(p))
	}

	query, args := repo.BatchInsertQueryN(policyBatchInsertQuery, values)
	rows, err := tx.Query(ctx, query+policyBatchInsertReturning, args...)
	if err != nil {
		return nil, errors.Wrap(err, "batch create policies")
	}
	defer rows.Close()

	var created []policy.Policy
	for rows.Next() {
		p, err := scanPolicyFromRows(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "batch create policies")
	}
	if len(created) != len(policies) {
		return nil, errors.Errorf("batch create policies: expected %d rows back, got %d", len(policies), len(created))
	}
	return created, nil
}

func (g *PgPolicyRepository) Update(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return policy.Policy{}, err
	}

	args := append([]interface{}{p.ID().String()}, policyInsertArgs(p)[1:]...)
	row := tx.QueryRow(ctx, policyUpdateQuery, args...)
	updated, err := scanPolicy(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return policy.Policy{}, policy.ErrNotFound
		}
		return policy.Policy{}, errors.Wrap(err, "update policy")
	}
	return updated, nil
}

func (g *PgPolicyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, policyDeleteQuery, id.String())
	if err != nil {
		return errors.Wrap(err, "delete policy")
	}
	if tag.RowsAffected() == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (g *PgPolicyRepository) DeleteAll(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, policyDeleteAllQuery); err != nil {
		return errors.Wrap(err, "delete all policies")
	}
	return nil
}

func (g *PgPolicyRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, policyCountQuery).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count policies")
	}
	return total, nil
}

func (g *PgPolicyRepository) CountByStatus(ctx context.Context, status policy.Status) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	query := repo.Join(policyCountQuery, "WHERE p.status = $1")
	if err := tx.QueryRow(ctx, query, string(status)).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count policies by status")
	}
	return total, nil
}

func policyInsertArgs(p policy.Policy) []interface{} {
	return []interface{}{
		p.ClientID().String(),
		nullable(p.PolicyNumber()),
		nullable(p.Insurer()),
		nullable(p.Product()),
		p.DueDate(),
		decimalArg(p.Premium()),
		decimalArg(p.IOF()),
		decimalArg(p.NetPremium()),
		decimalArg(p.Commission()),
		nullable(p.CpfCnpj()),
		nullable(p.Plate()),
		string(p.Status()),
		nullable(p.Notes()),
	}
}

func scanPolicy(row pgx.Row) (policy.Policy, error) {
	var m models.Policy
	if err := row.Scan(
		&m.ID,
		&m.ClientID,
		&m.PolicyNumber,
		&m.Insurer,
		&m.Product,
		&m.DueDate,
		&m.Premium,
		&m.IOF,
		&m.NetPremium,
		&m.Commission,
		&m.CpfCnpj,
		&m.Plate,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return policy.Policy{}, err
	}
	return toDomainPolicy(m), nil
}

func scanPolicyFromRows(rows pgx.Rows) (policy.Policy, error) {
	var m models.Policy
	if err := rows.Scan(
		&m.ID,
		&m.ClientID,
		&m.PolicyNumber,
		&m.Insurer,
		&m.Product,
		&m.DueDate,
		&m.Premium,
		&m.IOF,
		&m.NetPremium,
		&m.Commission,
		&m.CpfCnpj,
		&m.Plate,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return policy.Policy{}, errors.Wrap(err, "scan policy row")
	}
	return toDomainPolicy(m), nil
}

func scanPoliciesWithClient(rows pgx.Rows) ([]policy.WithClient, error) {
	var out []policy.WithClient
	for rows.Next() {
		var m models.Policy
		var cID, cName, cPhone, cEmail, cCpfCnpj *string
		var cBirthday, cCreatedAt, cUpdatedAt *time.Time
		if err := rows.Scan(
			&m.ID,
			&m.ClientID,
			&m.PolicyNumber,
			&m.Insurer,
			&m.Product,
			&m.DueDate,
			&m.Premium,
			&m.IOF,
			&m.NetPremium,
			&m.Commission,
			&m.CpfCnpj,
			&m.Plate,
			&m.Status,
			&m.Notes,
			&m.CreatedAt,
			&m.UpdatedAt,
			&cID,
			&cName,
			&cPhone,
			&cEmail,
			&cCpfCnpj,
			&cBirthday,
			&cCreatedAt,
			&cUpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan policy with client row")
		}

		item := policy.WithClient{Policy: toDomainPolicy(m)}
		if cID != nil && cName != nil {
			item.Client = toDomainClient(models.Client{
				ID:        *cID,
				Name:      *cName,
				Phone:     cPhone,
				Email:     cEmail,
				CpfCnpj:   cCpfCnpj,
				Birthday:  cBirthday,
				CreatedAt: derefTime(cCreatedAt),
				UpdatedAt: derefTime(cUpdatedAt),
			})
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
