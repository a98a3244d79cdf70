package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodcourt-labs/order-platform/internal/models"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetPushToken(ctx context.Context, userID uuid.UUID) (string, error)
	SavePushToken(ctx context.Context, userID uuid.UUID, token string) error
}

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepo(db *sql.DB) ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, "group", COALESCE(email, ''), expo_push_token
		FROM profiles
		WHERE id = $1
	`

	profile := &models.Profile{}

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&profile.ID, &profile.Group, &profile.Email, &profile.ExpoPushToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// GetPushToken returns the user's active token, or "" when none is set.
// An unset token is a normal state, not an error.
func (r *profileRepository) GetPushToken(ctx context.Context, userID uuid.UUID) (string, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT expo_push_token
		FROM profiles
		WHERE id = $1
	`

	var token sql.NullString

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&token)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}

		return "", fmt.Errorf("failed to get push token: %w", err)
	}

	if !token.Valid {
		return "", nil
	}

	return token.String, nil
}

// SavePushToken overwrites the user's token; each profile holds at most one.
func (r *profileRepository) SavePushToken(ctx context.Context, userID uuid.UUID, token string) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `
		UPDATE profiles
		SET expo_push_token = $1
		WHERE id = $2
	`

	result, err := r.DB.ExecContext(dbCtx, query, token, userID)
	if err != nil {
		return fmt.Errorf("failed to save push token: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
