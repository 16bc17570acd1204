package postgres

import (
	"context"
	"strings"

	"lawbix/internal/domain"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.created_at,
	(SELECT min(c.id) FROM companies c WHERE c.user_id = u.id)`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.CompanyID)
	u.Role = domain.Role(role)
	return u, mapErr(err)
}

func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string, role domain.Role) (domain.User, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, strings.ToLower(email), passwordHash, string(role)).Scan(&id)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return db.UserByID(ctx, id)
}

func (db *DB) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.email = $1`, strings.ToLower(email)))
}

func (db *DB) UserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
}
