package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventer/internal/domain"
)

// maxSlugAttempts bounds the collision-resolution loop; in practice a
// handful of same-day, same-title events is the worst case.
const maxSlugAttempts = 20

const eventColumns = `id, title, description, place, started_at, organizer_id, published, published_at, title_image, slug, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// Create inserts the event, resolving slug collisions by suffixing the
// candidate with -2, -3, … until the unique index accepts it.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, place, started_at, organizer_id, published, published_at, title_image, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	slug := e.Slug
	for attempt := 1; ; attempt++ {
		err := r.DB.QueryRowContext(ctx, query,
			e.Title, e.Description, e.Place, e.StartedAt, e.OrganizerID,
			e.Published, e.PublishedAt, nullString(e.TitleImage), slug,
			e.CreatedAt, e.UpdatedAt,
		).Scan(&e.ID)
		if err == nil {
			e.Slug = slug
			return nil
		}
		if isSlugConflict(err) && attempt < maxSlugAttempts {
			slug = fmt.Sprintf("%s-%d", e.Slug, attempt+1)
			continue
		}
		return err
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, slug))
}

// List applies the query's visibility, published, and temporal scopes as
// SQL. The WHERE clauses mirror domain.EventQuery.Matches exactly.
func (r *eventRepository) List(ctx context.Context, q domain.EventQuery) ([]*domain.Event, error) {
	var (
		where         []string
		args          []interface{}
		n             = 1
		publishedOnly = q.PublishedOnly
	)

	if q.Viewer == nil {
		publishedOnly = true
	} else if !q.Viewer.Admin {
		where = append(where, fmt.Sprintf("(organizer_id = $%d OR published = TRUE)", n))
		args = append(args, q.Viewer.ID)
		n++
	}
	if publishedOnly {
		where = append(where, "published = TRUE")
	}

	order := "started_at ASC"
	switch q.Temporal {
	case domain.TemporalPast:
		where = append(where, fmt.Sprintf("started_at < $%d", n))
		args = append(args, q.DayBoundary)
		n++
		order = "started_at DESC"
	case domain.TemporalFuture:
		where = append(where, fmt.Sprintf("started_at >= $%d", n))
		args = append(args, q.DayBoundary)
		n++
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + order

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update writes every mutable field, resolving slug collisions the same
// way Create does. Updating a row against its own slug is not a conflict.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, place = $3, started_at = $4, published = $5, published_at = $6, title_image = $7, slug = $8, updated_at = $9
		WHERE id = $10
	`
	slug := e.Slug
	for attempt := 1; ; attempt++ {
		result, err := r.DB.ExecContext(ctx, query,
			e.Title, e.Description, e.Place, e.StartedAt,
			e.Published, e.PublishedAt, nullString(e.TitleImage), slug,
			e.UpdatedAt, e.ID,
		)
		if err != nil {
			if isSlugConflict(err) && attempt < maxSlugAttempts {
				slug = fmt.Sprintf("%s-%d", e.Slug, attempt+1)
				continue
			}
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
		e.Slug = slug
		return nil
	}
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var publishedAt sql.NullTime
	var titleImage sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Place, &e.StartedAt, &e.OrganizerID,
		&e.Published, &publishedAt, &titleImage, &e.Slug, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if publishedAt.Valid {
		e.PublishedAt = &publishedAt.Time
	}
	if titleImage.Valid {
		e.TitleImage = titleImage.String
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isSlugConflict reports whether err is a unique violation on the events
// slug index.
func isSlugConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && strings.Contains(pqErr.Constraint, "slug")
}
