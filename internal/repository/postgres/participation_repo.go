package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventer/internal/domain"
)

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

func (r *participationRepository) Create(ctx context.Context, p *domain.Participation) error {
	query := `
		INSERT INTO event_participations (event_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.EventID, p.UserID, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

// FindByEventAndUser returns (nil, nil) when no participation exists;
// absence is a value, not an error.
func (r *participationRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	query := `
		SELECT id, event_id, user_id, created_at, updated_at
		FROM event_participations
		WHERE event_id = $1 AND user_id = $2
	`
	p := &domain.Participation{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(
		&p.ID, &p.EventID, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) ListParticipants(ctx context.Context, eventID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.admin, u.created_at, u.updated_at
		FROM users u
		JOIN event_participations p ON p.user_id = u.id
		WHERE p.event_id = $1
		ORDER BY p.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Admin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *participationRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_participations WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
