package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
)

// Repository is the serialized store behind a registry. Create must be atomic: when two
// records with the same name race, exactly one is stored and the other gets ErrNameUnavailable.
type Repository interface {
	Init(ctx context.Context, meta *Meta) error
	GetMeta(ctx context.Context, registryAddress string) (*Meta, error)
	Create(ctx context.Context, rec *Record) error
	Exists(ctx context.Context, registryAddress, name string) (bool, error)
	GetByName(ctx context.Context, registryAddress, name string) (*Record, error)
	List(ctx context.Context, registryAddress string) ([]Handle, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *pgxRepository) Init(ctx context.Context, meta *Meta) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.registries").
		Columns("address", "owner").
		Values(meta.Address, meta.Owner).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build init registry query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&meta.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyInitialized
		}
		return fmt.Errorf("init registry failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetMeta(ctx context.Context, registryAddress string) (*Meta, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("address", "owner", "created_at").
		From("public.registries").
		Where(squirrel.Eq{"address": registryAddress}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get registry query failed: %w", err)
	}

	var m Meta
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&m.Address, &m.Owner, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("get registry failed: %w", err)
	}
	return &m, nil
}

// Create inserts the resource and its empty ledger in one transaction.
func (r *pgxRepository) Create(ctx context.Context, rec *Record) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	insertResource, resourceArgs, err := psql.Insert("public.resources").
		Columns("registry_address", "name", "address", "owner", "price", "rooms", "location", "features", "image", "deposit").
		Values(
			rec.RegistryAddress, rec.Name, rec.Address, rec.Owner,
			squirrel.Expr("?::numeric", rec.Price.String()),
			roomsColumn(rec.Rooms),
			rec.Location, rec.Features, rec.Image,
			squirrel.Expr("?::numeric", rec.Deposit.String()),
		).
		Suffix("RETURNING seq, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create resource query failed: %w", err)
	}

	insertLedger, ledgerArgs, err := psql.Insert("public.ledgers").
		Columns("resource_address").
		Values(rec.Address).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create ledger query failed: %w", err)
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertResource, resourceArgs...).Scan(&rec.Seq, &rec.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertLedger, ledgerArgs...)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameUnavailable
		}
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Exists(ctx context.Context, registryAddress, name string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.resources").
		Where(squirrel.Eq{"registry_address": registryAddress, "name": name}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build resource exists query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check resource exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) GetByName(ctx context.Context, registryAddress, name string) (*Record, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"seq", "registry_address", "name", "address", "owner", "price::text", "rooms",
		"location", "features", "image", "deposit::text", "created_at",
	).
		From("public.resources").
		Where(squirrel.Eq{"registry_address": registryAddress, "name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query failed: %w", err)
	}

	var (
		rec            Record
		price, deposit string
		rooms          *int64
	)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&rec.Seq, &rec.RegistryAddress, &rec.Name, &rec.Address, &rec.Owner, &price, &rooms,
		&rec.Location, &rec.Features, &rec.Image, &deposit, &rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}

	if rec.Price, err = amount.Parse(price); err != nil {
		return nil, fmt.Errorf("decode price of %s failed: %w", rec.Name, err)
	}
	if rec.Deposit, err = amount.Parse(deposit); err != nil {
		return nil, fmt.Errorf("decode deposit of %s failed: %w", rec.Name, err)
	}
	if rooms != nil {
		n := uint64(*rooms)
		rec.Rooms = &n
	}
	return &rec, nil
}

// roomsColumn maps the optional room count onto the BIGINT column.
func roomsColumn(rooms *uint64) *int64 {
	if rooms == nil {
		return nil
	}
	n := int64(*rooms)
	return &n
}

func (r *pgxRepository) List(ctx context.Context, registryAddress string) ([]Handle, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("name", "address").
		From("public.resources").
		Where(squirrel.Eq{"registry_address": registryAddress}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	handles := make([]Handle, 0)
	for rows.Next() {
		var h Handle
		if err := rows.Scan(&h.Name, &h.Address); err != nil {
			return nil, fmt.Errorf("scan resource failed: %w", err)
		}
		handles = append(handles, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources failed: %w", err)
	}
	return handles, nil
}
