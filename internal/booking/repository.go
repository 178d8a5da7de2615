package booking

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
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
)

// Repository is the serialized store behind every ledger. Insert must be atomic: of two
// bookings racing for one date exactly one is stored, the other gets ErrDateAlreadyBooked.
type Repository interface {
	Insert(ctx context.Context, b *Booking) error
	Get(ctx context.Context, resourceAddress string, date calendar.Date) (*Booking, error)
	Exists(ctx context.Context, resourceAddress string, date calendar.Date) (bool, error)
	Count(ctx context.Context, resourceAddress string) (int64, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.resource_address", "r.name", "b.day", "b.month", "b.year", "b.payer", "b.amount::text", "b.paid_at",
}

func dateEq(resourceAddress string, d calendar.Date) squirrel.Eq {
	return squirrel.Eq{"resource_address": resourceAddress, "day": d.Day, "month": d.Month, "year": d.Year}
}

// Insert stores the booking and bumps the ledger counter in one transaction.
func (r *pgxRepository) Insert(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	insertBooking, bookingArgs, err := psql.Insert("public.bookings").
		Columns("id", "resource_address", "day", "month", "year", "payer", "amount").
		Values(
			b.ID, b.ResourceAddress, b.Date.Day, b.Date.Month, b.Date.Year, b.Payer,
			squirrel.Expr("?::numeric", b.Amount.String()),
		).
		Suffix("RETURNING paid_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert booking query failed: %w", err)
	}

	bumpLedger, ledgerArgs, err := psql.Update("public.ledgers").
		Set("bookings_count", squirrel.Expr("bookings_count + 1")).
		Where(squirrel.Eq{"resource_address": b.ResourceAddress}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update ledger query failed: %w", err)
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertBooking, bookingArgs...).Scan(&b.PaidAt); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, bumpLedger, ledgerArgs...)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrResourceNotFound
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
			return ErrDateAlreadyBooked
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation:
			return ErrResourceNotFound
		case errors.Is(err, ErrResourceNotFound):
			return err
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Get(ctx context.Context, resourceAddress string, d calendar.Date) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.resources r ON b.resource_address = r.address").
		Where(squirrel.Eq{"b.resource_address": resourceAddress, "b.day": d.Day, "b.month": d.Month, "b.year": d.Year}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) Exists(ctx context.Context, resourceAddress string, d calendar.Date) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(dateEq(resourceAddress, d)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build booking exists query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check booking exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Count(ctx context.Context, resourceAddress string) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("bookings_count").
		From("public.ledgers").
		Where(squirrel.Eq{"resource_address": resourceAddress}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bookings query failed: %w", err)
	}

	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrResourceNotFound
		}
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return n, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	filter.normalize()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(bookingColumns, "count(*) OVER() AS total_count")...).
		From("public.bookings b").
		Join("public.resources r ON b.resource_address = r.address")

	if filter.ResourceAddress != "" {
		query = query.Where(squirrel.Eq{"b.resource_address": filter.ResourceAddress})
	}
	if filter.Payer != "" {
		query = query.Where(squirrel.Eq{"b.payer": filter.Payer})
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.OrderBy("b.year ASC", "b.month ASC", "b.day ASC", "b.resource_address ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	bookings := make([]*Booking, 0)
	var total int
	for rows.Next() {
		var (
			b   Booking
			amt string
		)
		if err := rows.Scan(
			&b.ID, &b.ResourceAddress, &b.ResourceName, &b.Date.Day, &b.Date.Month, &b.Date.Year,
			&b.Payer, &amt, &b.PaidAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		if b.Amount, err = amount.Parse(amt); err != nil {
			return nil, 0, fmt.Errorf("decode booking amount failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, total, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b   Booking
		amt string
	)
	if err := row.Scan(
		&b.ID, &b.ResourceAddress, &b.ResourceName, &b.Date.Day, &b.Date.Month, &b.Date.Year,
		&b.Payer, &amt, &b.PaidAt,
	); err != nil {
		return nil, err
	}
	var err error
	if b.Amount, err = amount.Parse(amt); err != nil {
		return nil, fmt.Errorf("decode booking amount failed: %w", err)
	}
	return &b, nil
}
