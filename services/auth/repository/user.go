package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	"github.com/grandhotel/hotelops/internal/pkg/models"
)

const userColumns = `id, username, password_hash, mobile, name, email, role, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	models.SortByUsername:  "username",
	models.SortByCreatedAt: "created_at",
}

// GetUserByID retrieves a user by ID
func (r *AuthRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUserByField(ctx, "id", id)
}

// GetUserByUsername retrieves a user by username
func (r *AuthRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUserByField(ctx, "username", username)
}

// getUserByField is a helper function to get a user by a specific column.
// field is never user input.
func (r *AuthRepo) getUserByField(ctx context.Context, field, value string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, field)

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ListUsers returns accounts matching the filter. Search is a case-insensitive
// substring match on username, mobile and name.
func (r *AuthRepo) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	filter = filter.Normalize()

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT ` + userColumns + ` FROM users`)

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		sb.WriteString(` WHERE username ILIKE $1 OR mobile ILIKE $1 OR name ILIKE $1`)
	}

	direction := "ASC"
	if filter.Order == models.OrderDesc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s NULLS LAST, id ASC`, sortColumns[filter.Sort], direction)

	users := []*models.User{}
	if err := r.db.SelectContext(ctx, &users, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
