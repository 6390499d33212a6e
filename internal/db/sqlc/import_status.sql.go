// Queries in the layout sqlc v1.29.0 emits for sqlc.yaml. Written by hand;
// keep in step with database/queries and regenerate with `sqlc generate`.
// source: import_status.sql

package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getLastResumeTimestamp = `-- name: GetLastResumeTimestamp :one
SELECT resume_timestamp
FROM import_status
WHERE kind = $1 AND resume_timestamp IS NOT NULL
ORDER BY finished_at DESC
LIMIT 1
`

func (q *Queries) GetLastResumeTimestamp(ctx context.Context, kind ImportKind) (pgtype.Timestamptz, error) {
	row := q.db.QueryRow(ctx, getLastResumeTimestamp, kind)
	var resume_timestamp pgtype.Timestamptz
	err := row.Scan(&resume_timestamp)
	return resume_timestamp, err
}

const insertImportStatus = `-- name: InsertImportStatus :exec
INSERT INTO import_status (id, kind, started_at, finished_at, records_written, records_skipped, resume_timestamp)
VALUES ($1, $2, $3, $4,
        $5, $6, $7)
`

type InsertImportStatusParams struct {
	ID              pgtype.UUID        `json:"id"`
	Kind            ImportKind         `json:"kind"`
	StartedAt       pgtype.Timestamptz `json:"started_at"`
	FinishedAt      pgtype.Timestamptz `json:"finished_at"`
	RecordsWritten  int32              `json:"records_written"`
	RecordsSkipped  int32              `json:"records_skipped"`
	ResumeTimestamp pgtype.Timestamptz `json:"resume_timestamp"`
}

func (q *Queries) InsertImportStatus(ctx context.Context, arg InsertImportStatusParams) error {
	_, err := q.db.Exec(ctx, insertImportStatus,
		arg.ID,
		arg.Kind,
		arg.StartedAt,
		arg.FinishedAt,
		arg.RecordsWritten,
		arg.RecordsSkipped,
		arg.ResumeTimestamp,
	)
	return err
}
