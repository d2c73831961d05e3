package core

import (
	"context"

	"github.com/jackc/pgx/v5"

	"taskboard/internal/store"
)

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	sql, args, err := psql.Select("id", "name", "email").From("users").ToSql()
	if err != nil {
		return nil, &store.QueryFailure{Op: "build users query", Err: err}
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &store.QueryFailure{Op: "list users", Err: err}
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[User])
	if err != nil {
		return nil, &store.QueryFailure{Op: "scan users", Err: err}
	}
	return users, nil
}

// CreateUser validates the payload and inserts a user row.
func (s *Service) CreateUser(ctx context.Context, body map[string]any) (User, error) {
	rec := userNormalizer.Apply(body, nil)
	if err := checkRules(userRules, rec); err != nil {
		return User{}, err
	}

	sql, args, err := psql.Insert("users").
		Columns("name", "email").
		Values(rec["name"], rec["email"]).
		Suffix("RETURNING id, name, email").
		ToSql()
	if err != nil {
		return User{}, &store.QueryFailure{Op: "build user insert", Err: err}
	}

	var user User
	row := s.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&user.ID, &user.Name, &user.Email); err != nil {
		return User{}, &store.QueryFailure{Op: "insert user", Err: err}
	}
	return user, nil
}
