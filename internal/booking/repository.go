package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateConfirmed runs the whole confirmation step in one transaction:
	// it serializes writers on the booking's (turf, day), re-checks for
	// colliding bookings, inserts the booking and marks the covered calendar
	// slots as booked. Returns ErrConflict when an overlap is found.
	CreateConfirmed(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// ListForDay returns the confirmed bookings for a turf on one calendar
	// day, ordered by start time.
	ListForDay(ctx context.Context, turfID string, day time.Time) ([]*Booking, error)

	// UpdateAmounts persists rem_amount and requested_players.
	UpdateAmounts(ctx context.Context, b *Booking) error

	// AddPlayer appends a participant and persists the recomputed amounts
	// in the same transaction.
	AddPlayer(ctx context.Context, b *Booking, p *Player) error

	// Cancel marks the booking cancelled and releases its calendar slots
	// in the same transaction.
	Cancel(ctx context.Context, b *Booking) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const dayLayout = "2006-01-02"

func (r *pgxRepository) CreateConfirmed(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent check-and-write on the same (turf, day): both
	// writers take the same advisory lock, so the second one observes the
	// first one's booking in the overlap check below. The lock is released
	// on commit or rollback.
	day := b.Day.Format(dayLayout)
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text), hashtext($2::text))`,
		b.TurfID, day,
	); err != nil {
		return fmt.Errorf("acquire booking lock failed: %w", err)
	}

	collides, err := hasOverlap(ctx, tx, b.TurfID, b.Day, b.StartTime, b.EndTime)
	if err != nil {
		return err
	}
	if collides {
		return ErrConflict
	}

	const insert = `
		INSERT INTO public.bookings (turf_id, user_id, day, start_time, end_time, price, rem_amount, requested_players, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insert,
		b.TurfID, b.UserID, b.Day, b.StartTime, b.EndTime,
		b.Price, b.RemAmount, b.RequestedPlayers, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	// Slot-state sync: every grid slot fully contained in the booking
	// interval becomes booked. Boundary slots the booking only partially
	// covers keep their status.
	const sync = `
		UPDATE public.turf_day_slots
		SET status = 'booked'
		WHERE turf_id = $1 AND day = $2
		  AND start_time >= $3 AND end_time <= $4
		  AND status = 'available'
	`
	if _, err := tx.Exec(ctx, sync, b.TurfID, b.Day, b.StartTime, b.EndTime); err != nil {
		return fmt.Errorf("sync day slots failed: %w", err)
	}

	return tx.Commit(ctx)
}

// hasOverlap checks for a confirmed booking on the same turf and calendar day
// whose [start, end) interval overlaps the candidate. Exactly equal intervals
// are matched explicitly as a duplicate fast path; cross-day bookings never
// collide because the day must match.
func hasOverlap(ctx context.Context, tx pgx.Tx, turfID string, day time.Time, start, end string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"turf_id": turfID}).
		Where(squirrel.Eq{"day": day}).
		Where(squirrel.Eq{"status": StatusConfirmed}).
		Where(squirrel.Or{
			squirrel.Eq{"start_time": start, "end_time": end},
			squirrel.And{
				squirrel.Lt{"start_time": end},
				squirrel.Gt{"end_time": start},
			},
		})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := tx.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	const query = `
		SELECT b.id, b.turf_id, t.name, b.user_id, u.name,
		       b.day, b.start_time, b.end_time, b.price, b.rem_amount,
		       b.requested_players, b.status, b.created_at
		FROM public.bookings b
		JOIN public.turfs t ON b.turf_id = t.id
		JOIN public.users u ON b.user_id = u.id
		WHERE b.id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var b Booking
	if err := row.Scan(
		&b.ID, &b.TurfID, &b.TurfName, &b.UserID, &b.UserName,
		&b.Day, &b.StartTime, &b.EndTime, &b.Price, &b.RemAmount,
		&b.RequestedPlayers, &b.Status, &b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}

	players, err := r.listPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Players = players

	return &b, nil
}

func (r *pgxRepository) listPlayers(ctx context.Context, bookingID string) ([]Player, error) {
	const query = `
		SELECT p.id, p.user_id, u.name, p.players_count, p.price, p.joined_at
		FROM public.booking_players p
		JOIN public.users u ON p.user_id = u.id
		WHERE p.booking_id = $1
		ORDER BY p.joined_at
	`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking players failed: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserName, &p.PlayersCount, &p.Price, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan booking player failed: %w", err)
		}
		players = append(players, p)
	}
	return players, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.turf_id", "t.name", "b.user_id", "u.name",
		"b.day", "b.start_time", "b.end_time", "b.price", "b.rem_amount",
		"b.requested_players", "b.status", "b.created_at",
		"count(*) OVER() as total_count",
	).
		From("public.bookings b").
		Join("public.turfs t ON b.turf_id = t.id").
		Join("public.users u ON b.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.TurfID != "" {
		query = query.Where(squirrel.Eq{"b.turf_id": filter.TurfID})
	}
	if filter.Day != nil {
		query = query.Where(squirrel.Eq{"b.day": *filter.Day})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}

	query = query.OrderBy("b.day DESC", "b.start_time")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.TurfID, &b.TurfName, &b.UserID, &b.UserName,
			&b.Day, &b.StartTime, &b.EndTime, &b.Price, &b.RemAmount,
			&b.RequestedPlayers, &b.Status, &b.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListForDay(ctx context.Context, turfID string, day time.Time) ([]*Booking, error) {
	const query = `
		SELECT id, turf_id, user_id, day, start_time, end_time, price, rem_amount, requested_players, status, created_at
		FROM public.bookings
		WHERE turf_id = $1 AND day = $2 AND status = 'confirmed'
		ORDER BY start_time
	`
	rows, err := r.pool.Query(ctx, query, turfID, day)
	if err != nil {
		return nil, fmt.Errorf("list bookings for day failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.TurfID, &b.UserID, &b.Day, &b.StartTime, &b.EndTime,
			&b.Price, &b.RemAmount, &b.RequestedPlayers, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, nil
}

func (r *pgxRepository) UpdateAmounts(ctx context.Context, b *Booking) error {
	const query = `
		UPDATE public.bookings
		SET rem_amount = $1, requested_players = $2
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, b.RemAmount, b.RequestedPlayers, b.ID)
	if err != nil {
		return fmt.Errorf("update booking amounts failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) AddPlayer(ctx context.Context, b *Booking, p *Player) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add player tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO public.booking_players (booking_id, user_id, players_count, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at
	`
	if err := tx.QueryRow(ctx, insert, b.ID, p.UserID, p.PlayersCount, p.Price).
		Scan(&p.ID, &p.JoinedAt); err != nil {
		return fmt.Errorf("add booking player failed: %w", err)
	}

	const update = `
		UPDATE public.bookings
		SET rem_amount = $1, requested_players = $2
		WHERE id = $3
	`
	ct, err := tx.Exec(ctx, update, b.RemAmount, b.RequestedPlayers, b.ID)
	if err != nil {
		return fmt.Errorf("update booking after join failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	b.Players = append(b.Players, *p)
	return nil
}

func (r *pgxRepository) Cancel(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const update = `
		UPDATE public.bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'confirmed'
	`
	ct, err := tx.Exec(ctx, update, b.ID)
	if err != nil {
		return fmt.Errorf("cancel booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Compensating slot release: the same contained range the confirmation
	// marked booked goes back to available.
	const release = `
		UPDATE public.turf_day_slots
		SET status = 'available'
		WHERE turf_id = $1 AND day = $2
		  AND start_time >= $3 AND end_time <= $4
		  AND status = 'booked'
	`
	if _, err := tx.Exec(ctx, release, b.TurfID, b.Day, b.StartTime, b.EndTime); err != nil {
		return fmt.Errorf("release day slots failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	b.Status = StatusCancelled
	return nil
}
