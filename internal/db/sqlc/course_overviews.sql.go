// Queries in the layout sqlc v1.29.0 emits for sqlc.yaml. Written by hand;
// keep in step with database/queries and regenerate with `sqlc generate`.
// source: course_overviews.sql

package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listCourseOverviewIDs = `-- name: ListCourseOverviewIDs :many
SELECT id FROM course_overviews ORDER BY id
`

func (q *Queries) ListCourseOverviewIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listCourseOverviewIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEnrollableCourseOverviewIDs = `-- name: ListEnrollableCourseOverviewIDs :many
SELECT co.id
FROM course_overviews co
LEFT JOIN course_details cd ON cd.id = co.id
WHERE co.end_date > $1
  AND (co.enrollment_end IS NULL OR co.enrollment_end > $1)
  AND cd.id IS NULL
ORDER BY co.id
`

func (q *Queries) ListEnrollableCourseOverviewIDs(ctx context.Context, now pgtype.Timestamptz) ([]string, error) {
	rows, err := q.db.Query(ctx, listEnrollableCourseOverviewIDs, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertCourseOverview = `-- name: UpsertCourseOverview :exec
INSERT INTO course_overviews (id, org, start_date, end_date, enrollment_end)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    org = EXCLUDED.org,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    enrollment_end = EXCLUDED.enrollment_end
`

type UpsertCourseOverviewParams struct {
	ID            string             `json:"id"`
	Org           string             `json:"org"`
	StartDate     pgtype.Timestamptz `json:"start_date"`
	EndDate       pgtype.Timestamptz `json:"end_date"`
	EnrollmentEnd pgtype.Timestamptz `json:"enrollment_end"`
}

func (q *Queries) UpsertCourseOverview(ctx context.Context, arg UpsertCourseOverviewParams) error {
	_, err := q.db.Exec(ctx, upsertCourseOverview,
		arg.ID,
		arg.Org,
		arg.StartDate,
		arg.EndDate,
		arg.EnrollmentEnd,
	)
	return err
}
