package persistence

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/infrastructure/persistence/models"
	"github.com/renovaplan/renova/pkg/composables"
	"github.com/renovaplan/renova/pkg/repo"
)

const (
	clientFindQuery = `
        SELECT
            c.id,
            c.name,
            c.phone,
            c.email,
            c.cpf_cnpj,
            c.birthday,
            c.created_at,
            c.updated_at
        FROM clients c`

	clientCountQuery = `SELECT COUNT(c.id) FROM clients c`

	clientInsertQuery = `
        INSERT INTO clients (name, phone, email, cpf_cnpj, birthday)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, name, phone, email, cpf_cnpj, birthday, created_at, updated_at`

	clientBatchInsertQuery = `INSERT INTO clients (name, phone, email, cpf_cnpj, birthday) VALUES`

	clientBatchInsertReturning = ` RETURNING id, name, phone, email, cpf_cnpj, birthday, created_at, updated_at`

	clientUpdateQuery = `
        UPDATE clients
        SET name = $2, phone = $3, email = $4, cpf_cnpj = $5, birthday = $6, updated_at = now()
        WHERE id = $1
        RETURNING id, name, phone, email, cpf_cnpj, birthday, created_at, updated_at`

	clientDeleteQuery    = `DELETE FROM clients WHERE id = $1`
	clientDeleteAllQuery = `DELETE FROM clients`
)

type PgClientRepository struct{}

func NewClientRepository() client.Repository {
	return &PgClientRepository{}
}

func (g *PgClientRepository) GetPaginated(ctx context.Context, params *client.FindParams) ([]client.Client, int64, error) {
	if params == nil {
		params = &client.FindParams{}
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
	if q := strings.TrimSpace(params.Q); q != "" {
		conditions = append(conditions, "(c.name ILIKE $1 OR c.email ILIKE $1 OR c.phone ILIKE $1 OR c.cpf_cnpj ILIKE $1)")
		args = append(args, "%"+q+"%")
	}

	countQuery := repo.Join(clientCountQuery, repo.JoinWhere(conditions...))
	var total int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count clients")
	}

	query := repo.Join(
		clientFindQuery,
		repo.JoinWhere(conditions...),
		"ORDER BY c.name ASC",
		"LIMIT", itoa(limit),
		"OFFSET", itoa(offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query clients")
	}
	defer rows.Close()

	out, err := scanClients(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (g *PgClientRepository) GetAll(ctx context.Context, limit int) ([]client.Client, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10000
	}
	query := repo.Join(clientFindQuery, "ORDER BY c.created_at ASC LIMIT", itoa(limit))
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query all clients")
	}
	defer rows.Close()

	return scanClients(rows)
}

func (g *PgClientRepository) GetByID(ctx context.Context, id uuid.UUID) (client.Client, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return client.Client{}, err
	}

	row := tx.QueryRow(ctx, repo.Join(clientFindQuery, "WHERE c.id = $1"), id.String())
	c, err := scanClient(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return client.Client{}, client.ErrNotFound
		}
		return client.Client{}, errors.Wrap(err, "get client by id")
	}
	return c, nil
}

func (g *PgClientRepository) GetByBirthdayMonth(ctx context.Context, month time.Month) ([]client.Client, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		clientFindQuery,
		"WHERE c.birthday IS NOT NULL AND EXTRACT(MONTH FROM c.birthday) = $1",
		"ORDER BY EXTRACT(DAY FROM c.birthday) ASC, c.name ASC",
	)
	rows, err := tx.Query(ctx, query, int(month))
	if err != nil {
		return nil, errors.Wrap(err, "query clients by birthday month")
	}
	defer rows.Close()

	return scanClients(rows)
}

func (g *PgClientRepository) Create(ctx context.Context, c client.Client) (client.Client, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return client.Client{}, err
	}

	row := tx.QueryRow(
		ctx,
		clientInsertQuery,
		c.Name(),
		nullable(c.Phone()),
		nullable(c.Email()),
		nullable(c.CpfCnpj()),
		c.Birthday(),
	)
	created, err := scanClient(row)
	if err != nil {
		return client.Client{}, errors.Wrap(err, "create client")
	}
	return created, nil
}

func (g *PgClientRepository) CreateMany(ctx context.Context, clients []client.Client) ([]client.Client, error) {
	if len(clients) == 0 {
		return nil, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	values := make([][]interface{}, 0, len(clients))
	for _, c := range clients {
		values = append(values, []interface{}{
			c.Name(),
			nullable(c.Phone()),
			nullable(c.Email()),
			nullable(c.CpfCnpj()),
			c.Birthday(),
		})
	}

	query, args := repo.BatchInsertQueryN(clientBatchInsertQuery, values)
	rows, err := tx.Query(ctx, query+clientBatchInsertReturning, args...)
	if err != nil {
		return nil, errors.Wrap(err, "batch create clients")
	}
	defer rows.Close()

	created, err := scanClients(rows)
	if err != nil {
		return nil, err
	}
	if len(created) != len(clients) {
		return nil, errors.Errorf("batch create clients: expected %d rows back, got %d", len(clients), len(created))
	}
	return created, nil
}

func (g *PgClientRepository) Update(ctx context.Context, c client.Client) (client.Client, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return client.Client{}, err
	}

	row := tx.QueryRow(
		ctx,
		clientUpdateQuery,
		c.ID().String(),
		c.Name(),
		nullable(c.Phone()),
		nullable(c.Email()),
		nullable(c.CpfCnpj()),
		c.Birthday(),
	)
	updated, err := scanClient(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return client.Client{}, client.ErrNotFound
		}
		return client.Client{}, errors.Wrap(err, "update client")
	}
	return updated, nil
}

func (g *PgClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, clientDeleteQuery, id.String())
	if err != nil {
		return errors.Wrap(err, "delete client")
	}
	if tag.RowsAffected() == 0 {
		return client.ErrNotFound
	}
	return nil
}

func (g *PgClientRepository) DeleteAll(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, clientDeleteAllQuery); err != nil {
		return errors.Wrap(err, "delete all clients")
	}
	return nil
}

func (g *PgClientRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, clientCountQuery).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count clients")
	}
	return total, nil
}

func scanClient(row pgx.Row) (client.Client, error) {
	var m models.Client
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Phone,
		&m.Email,
		&m.CpfCnpj,
		&m.Birthday,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return client.Client{}, err
	}
	return toDomainClient(m), nil
}

func scanClients(rows pgx.Rows) ([]client.Client, error) {
	var out []client.Client
	for rows.Next() {
		var m models.Client
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Phone,
			&m.Email,
			&m.CpfCnpj,
			&m.Birthday,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan client row")
		}
		out = append(out, toDomainClient(m))
	}
	return out, rows.Err()
}
