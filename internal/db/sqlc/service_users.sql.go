// Queries in the layout sqlc v1.29.0 emits for sqlc.yaml. Written by hand;
// keep in step with database/queries and regenerate with `sqlc generate`.
// source: service_users.sql

package sqlc

import (
	"context"
)

const getServiceUserByUsername = `-- name: GetServiceUserByUsername :one
SELECT id, username, email, is_active FROM service_users WHERE username = $1
`

func (q *Queries) GetServiceUserByUsername(ctx context.Context, username string) (ServiceUser, error) {
	row := q.db.QueryRow(ctx, getServiceUserByUsername, username)
	var i ServiceUser
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.IsActive,
	)
	return i, err
}

const insertServiceUser = `-- name: InsertServiceUser :one
INSERT INTO service_users (username, email, is_active)
VALUES ($1, $2, $3)
RETURNING id, username, email, is_active
`

type InsertServiceUserParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func (q *Queries) InsertServiceUser(ctx context.Context, arg InsertServiceUserParams) (ServiceUser, error) {
	row := q.db.QueryRow(ctx, insertServiceUser, arg.Username, arg.Email, arg.IsActive)
	var i ServiceUser
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.IsActive,
	)
	return i, err
}
