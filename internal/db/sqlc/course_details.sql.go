// Queries in the layout sqlc v1.29.0 emits for sqlc.yaml. Written by hand;
// keep in step with database/queries and regenerate with `sqlc generate`.
// source: course_details.sql

package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const deleteCourseDetails = `-- name: DeleteCourseDetails :execrows
DELETE FROM course_details WHERE id = $1
`

func (q *Queries) DeleteCourseDetails(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCourseDetails, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getCourseDetails = `-- name: GetCourseDetails :one
SELECT id, course_type, product_source, enroll_by, start_date, end_date, created_at, modified_at
FROM course_details
WHERE id = $1
`

func (q *Queries) GetCourseDetails(ctx context.Context, id string) (CourseDetail, error) {
	row := q.db.QueryRow(ctx, getCourseDetails, id)
	var i CourseDetail
	err := row.Scan(
		&i.ID,
		&i.CourseType,
		&i.ProductSource,
		&i.EnrollBy,
		&i.StartDate,
		&i.EndDate,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const listCourseDetailsIDs = `-- name: ListCourseDetailsIDs :many
SELECT id FROM course_details ORDER BY id
`

func (q *Queries) ListCourseDetailsIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listCourseDetailsIDs)
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

const upsertCourseDetails = `-- name: UpsertCourseDetails :one
INSERT INTO course_details (id, course_type, product_source, enroll_by, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    course_type = EXCLUDED.course_type,
    product_source = EXCLUDED.product_source,
    enroll_by = EXCLUDED.enroll_by,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    modified_at = NOW()
RETURNING id, course_type, product_source, enroll_by, start_date, end_date, created_at, modified_at
`

type UpsertCourseDetailsParams struct {
	ID            string             `json:"id"`
	CourseType    string             `json:"course_type"`
	ProductSource string             `json:"product_source"`
	EnrollBy      pgtype.Timestamptz `json:"enroll_by"`
	StartDate     pgtype.Timestamptz `json:"start_date"`
	EndDate       pgtype.Timestamptz `json:"end_date"`
}

func (q *Queries) UpsertCourseDetails(ctx context.Context, arg UpsertCourseDetailsParams) (CourseDetail, error) {
	row := q.db.QueryRow(ctx, upsertCourseDetails,
		arg.ID,
		arg.CourseType,
		arg.ProductSource,
		arg.EnrollBy,
		arg.StartDate,
		arg.EndDate,
	)
	var i CourseDetail
	err := row.Scan(
		&i.ID,
		&i.CourseType,
		&i.ProductSource,
		&i.EnrollBy,
		&i.StartDate,
		&i.EndDate,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}
