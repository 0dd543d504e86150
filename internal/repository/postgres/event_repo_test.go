package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventer/internal/domain"
)

type driverValue = driver.Value

var eventRows = []string{"id", "title", "description", "place", "started_at", "organizer_id", "published", "published_at", "title_image", "slug", "created_at", "updated_at"}

func sampleEvent() *domain.Event {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Event{
		Title:       "Annual Meetup",
		Description: "Our yearly gathering",
		Place:       "Town Hall",
		StartedAt:   time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
		OrganizerID: "user-1",
		Slug:        "2024-03-15-annual-meetup",
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func addEventRow(rows *sqlmock.Rows, id string, e *domain.Event) *sqlmock.Rows {
	var publishedAt interface{}
	if e.PublishedAt != nil {
		publishedAt = *e.PublishedAt
	}
	return rows.AddRow(id, e.Title, e.Description, e.Place, e.StartedAt, e.OrganizerID,
		e.Published, publishedAt, nil, e.Slug, e.CreatedAt, e.UpdatedAt)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		mock.ExpectQuery(`INSERT INTO events`).
			WithArgs(e.Title, e.Description, e.Place, e.StartedAt, e.OrganizerID,
				false, nil, nil, e.Slug, e.CreatedAt, e.UpdatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Create(ctx, e))
		assert.Equal(t, "ev-1", e.ID)
		assert.Equal(t, "2024-03-15-annual-meetup", e.Slug)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slug conflict gets suffixed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		mock.ExpectQuery(`INSERT INTO events`).
			WithArgs(e.Title, e.Description, e.Place, e.StartedAt, e.OrganizerID,
				false, nil, nil, "2024-03-15-annual-meetup", e.CreatedAt, e.UpdatedAt).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "events_slug_key"})
		mock.ExpectQuery(`INSERT INTO events`).
			WithArgs(e.Title, e.Description, e.Place, e.StartedAt, e.OrganizerID,
				false, nil, nil, "2024-03-15-annual-meetup-2", e.CreatedAt, e.UpdatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-2"))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Create(ctx, e))
		assert.Equal(t, "ev-2", e.ID)
		assert.Equal(t, "2024-03-15-annual-meetup-2", e.Slug)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other db error surfaces", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO events`).WillReturnError(sql.ErrConnDone)

		repo := NewEventRepository(db)
		require.Error(t, repo.Create(ctx, sampleEvent()))
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		published := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		e.Published = true
		e.PublishedAt = &published
		mock.ExpectQuery(`SELECT id, title, description, place, started_at`).
			WithArgs("ev-1").
			WillReturnRows(addEventRow(sqlmock.NewRows(eventRows), "ev-1", e))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, "ev-1", got.ID)
		assert.True(t, got.Published)
		require.NotNil(t, got.PublishedAt)
		assert.Equal(t, published, *got.PublishedAt)
		assert.Empty(t, got.TitleImage)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, place, started_at`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	e := sampleEvent()
	mock.ExpectQuery(`FROM events WHERE slug = `).
		WithArgs(e.Slug).
		WillReturnRows(addEventRow(sqlmock.NewRows(eventRows), "ev-1", e))

	repo := NewEventRepository(db)
	got, err := repo.GetBySlug(ctx, e.Slug)
	require.NoError(t, err)
	assert.Equal(t, e.Slug, got.Slug)
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	boundary := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		query   domain.EventQuery
		pattern string
		args    []driverValue
	}{
		{
			name:    "anonymous sees published only",
			query:   domain.EventQuery{},
			pattern: `WHERE published = TRUE ORDER BY started_at ASC`,
		},
		{
			name:    "viewer scoped to own or published, future ascending",
			query:   domain.EventQuery{Viewer: &domain.Viewer{ID: "user-1"}, Temporal: domain.TemporalFuture, DayBoundary: boundary},
			pattern: `WHERE \(organizer_id = \$1 OR published = TRUE\) AND started_at >= \$2 ORDER BY started_at ASC`,
			args:    []driverValue{"user-1", boundary},
		},
		{
			name:    "admin past descending",
			query:   domain.EventQuery{Viewer: &domain.Viewer{ID: "a", Admin: true}, Temporal: domain.TemporalPast, DayBoundary: boundary},
			pattern: `WHERE started_at < \$1 ORDER BY started_at DESC`,
			args:    []driverValue{boundary},
		},
		{
			name:    "published scope composes with visibility",
			query:   domain.EventQuery{Viewer: &domain.Viewer{ID: "user-1"}, PublishedOnly: true},
			pattern: `WHERE \(organizer_id = \$1 OR published = TRUE\) AND published = TRUE ORDER BY started_at ASC`,
			args:    []driverValue{"user-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			exp := mock.ExpectQuery(tt.pattern)
			if len(tt.args) > 0 {
				exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(addEventRow(sqlmock.NewRows(eventRows), "ev-1", sampleEvent()))

			repo := NewEventRepository(db)
			events, err := repo.List(ctx, tt.query)
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		e.ID = "ev-1"
		mock.ExpectExec(`UPDATE events`).
			WithArgs(e.Title, e.Description, e.Place, e.StartedAt,
				false, nil, nil, e.Slug, e.UpdatedAt, "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Update(ctx, e))
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		e.ID = "ev-missing"
		mock.ExpectExec(`UPDATE events`).WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Update(ctx, e), domain.ErrNotFound)
	})

	t.Run("slug conflict gets suffixed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		e.ID = "ev-1"
		mock.ExpectExec(`UPDATE events`).
			WithArgs(e.Title, e.Description, e.Place, e.StartedAt,
				false, nil, nil, "2024-03-15-annual-meetup", e.UpdatedAt, "ev-1").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "events_slug_key"})
		mock.ExpectExec(`UPDATE events`).
			WithArgs(e.Title, e.Description, e.Place, e.StartedAt,
				false, nil, nil, "2024-03-15-annual-meetup-2", e.UpdatedAt, "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Update(ctx, e))
		assert.Equal(t, "2024-03-15-annual-meetup-2", e.Slug)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM events`).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM events`).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEventRepository(db)
	require.NoError(t, repo.Delete(ctx, "ev-1"))
	require.ErrorIs(t, repo.Delete(ctx, "ev-1"), domain.ErrNotFound)
}
