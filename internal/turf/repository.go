package turf

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
	// Create persists the turf together with its initial day-slot calendar
	// in a single transaction.
	Create(ctx context.Context, t *Turf, calendar []DaySlots) error
	GetByID(ctx context.Context, id string) (*Turf, error)
	List(ctx context.Context, filter Filter) ([]*Turf, int, error)
	ListIDs(ctx context.Context) ([]string, error)

	// DaySlots returns the persisted grid for one calendar day, ordered by
	// start time. An empty slice means the day is outside the calendar horizon.
	DaySlots(ctx context.Context, turfID string, day time.Time) ([]GridSlot, error)

	// LastCalendarDay returns the latest day present in the turf's calendar,
	// or the zero time when no calendar rows exist.
	LastCalendarDay(ctx context.Context, turfID string) (time.Time, error)

	// AppendCalendar inserts additional calendar days, skipping any slot rows
	// that already exist.
	AppendCalendar(ctx context.Context, turfID string, days []DaySlots) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, t *Turf, calendar []DaySlots) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create turf tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO public.turfs (admin_id, name, size, location, open_time, close_time, slot_duration, price_per_hour, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		t.AdminID, t.Name, t.Size, t.Location,
		t.OpenTime, t.CloseTime, t.SlotDuration, t.PricePerHour, t.Images,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create turf failed: %w", err)
	}

	if err := insertCalendar(ctx, tx, t.ID, calendar, false); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Turf, error) {
	const query = `
		SELECT id, admin_id, name, size, location, open_time, close_time, slot_duration, price_per_hour, images, created_at
		FROM public.turfs
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var t Turf
	if err := row.Scan(
		&t.ID, &t.AdminID, &t.Name, &t.Size, &t.Location,
		&t.OpenTime, &t.CloseTime, &t.SlotDuration, &t.PricePerHour, &t.Images, &t.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get turf failed: %w", err)
	}
	return &t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Turf, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "admin_id", "name", "size", "location",
		"open_time", "close_time", "slot_duration", "price_per_hour", "images", "created_at",
		"count(*) OVER() as total_count",
	).From("public.turfs")

	if filter.AdminID != "" {
		query = query.Where(squirrel.Eq{"admin_id": filter.AdminID})
	}

	query = query.OrderBy("created_at DESC")

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
		return nil, 0, fmt.Errorf("build list turfs query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list turfs failed: %w", err)
	}
	defer rows.Close()

	var turfs []*Turf
	var total int

	for rows.Next() {
		var t Turf
		if err := rows.Scan(
			&t.ID, &t.AdminID, &t.Name, &t.Size, &t.Location,
			&t.OpenTime, &t.CloseTime, &t.SlotDuration, &t.PricePerHour, &t.Images, &t.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan turf failed: %w", err)
		}
		turfs = append(turfs, &t)
	}

	return turfs, total, nil
}

func (r *pgxRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM public.turfs`)
	if err != nil {
		return nil, fmt.Errorf("list turf ids failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan turf id failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *pgxRepository) DaySlots(ctx context.Context, turfID string, day time.Time) ([]GridSlot, error) {
	const query = `
		SELECT start_time, end_time, status
		FROM public.turf_day_slots
		WHERE turf_id = $1 AND day = $2
		ORDER BY start_time
	`
	rows, err := r.pool.Query(ctx, query, turfID, day)
	if err != nil {
		return nil, fmt.Errorf("get day slots failed: %w", err)
	}
	defer rows.Close()

	var slots []GridSlot
	for rows.Next() {
		var s GridSlot
		if err := rows.Scan(&s.StartTime, &s.EndTime, &s.Status); err != nil {
			return nil, fmt.Errorf("scan day slot failed: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func (r *pgxRepository) LastCalendarDay(ctx context.Context, turfID string) (time.Time, error) {
	const query = `
		SELECT max(day) FROM public.turf_day_slots WHERE turf_id = $1
	`
	var last *time.Time
	if err := r.pool.QueryRow(ctx, query, turfID).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("get last calendar day failed: %w", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

func (r *pgxRepository) AppendCalendar(ctx context.Context, turfID string, days []DaySlots) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append calendar tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertCalendar(ctx, tx, turfID, days, true); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// insertCalendar bulk-inserts grid rows for the given days.
// With skipExisting set, rows already present are left untouched so the
// operation is safe to repeat.
func insertCalendar(ctx context.Context, tx pgx.Tx, turfID string, days []DaySlots, skipExisting bool) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	for _, d := range days {
		if len(d.Slots) == 0 {
			continue
		}

		insert := psql.Insert("public.turf_day_slots").
			Columns("turf_id", "day", "start_time", "end_time", "status")
		for _, s := range d.Slots {
			insert = insert.Values(turfID, d.Day, s.StartTime, s.EndTime, s.Status)
		}
		if skipExisting {
			insert = insert.Suffix("ON CONFLICT (turf_id, day, start_time) DO NOTHING")
		}

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert calendar query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert calendar day failed: %w", err)
		}
	}

	return nil
}
