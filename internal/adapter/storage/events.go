package storage

import (
	"context"
	"fmt"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var _ port.EventsStorage = (*EventsRepository)(nil)

const eventColumns = `id, title, description, kind, starts_at, ends_at, location`

type EventsRepository struct {
	sqldb sqldb
}

func NewEventsRepository(sqldb sqldb) EventsRepository {
	return EventsRepository{sqldb}
}

// ListEvents returns events overlapping the range, earliest first.
func (r EventsRepository) ListEvents(
	ctx context.Context, rng domain.EventRange,
) ([]domain.Event, error) {
	const op = "EventsRepository.ListEvents"

	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE starts_at < $2 AND ends_at > $1
		ORDER BY starts_at, id;`

	rows, err := r.sqldb.QueryContext(ctx, query, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Kind,
			&e.StartsAt, &e.EndsAt, &e.Location,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (r EventsRepository) StoreEvent(ctx context.Context, e domain.Event) error {
	const op = "EventsRepository.StoreEvent"

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err := r.sqldb.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Kind, e.StartsAt, e.EndsAt, e.Location,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return nil
}

func (r EventsRepository) UpdateEvent(ctx context.Context, e domain.Event) error {
	const op = "EventsRepository.UpdateEvent"

	query := `
		UPDATE events SET
			title = $2, description = $3, kind = $4,
			starts_at = $5, ends_at = $6, location = $7
		WHERE id = $1;`

	res, err := r.sqldb.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Kind, e.StartsAt, e.EndsAt, e.Location,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := one(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r EventsRepository) DeleteEvent(ctx context.Context, id string) error {
	const op = "EventsRepository.DeleteEvent"

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM events WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := one(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
