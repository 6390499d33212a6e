// Queries in the layout sqlc v1.29.0 emits for sqlc.yaml. Written by hand;
// keep in step with database/queries and regenerate with `sqlc generate`.

package sqlc

import (
	"database/sql/driver"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

type ImportKind string

const (
	ImportKindImport   ImportKind = "import"
	ImportKindBackfill ImportKind = "backfill"
	ImportKindRefresh  ImportKind = "refresh"
)

func (e *ImportKind) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = ImportKind(s)
	case string:
		*e = ImportKind(s)
	default:
		return fmt.Errorf("unsupported scan type for ImportKind: %T", src)
	}
	return nil
}

type NullImportKind struct {
	ImportKind ImportKind `json:"import_kind"`
	Valid      bool       `json:"valid"` // Valid is true if ImportKind is not NULL
}

// Scan implements the Scanner interface.
func (ns *NullImportKind) Scan(value interface{}) error {
	if value == nil {
		ns.ImportKind, ns.Valid = "", false
		return nil
	}
	ns.Valid = true
	return ns.ImportKind.Scan(value)
}

// Value implements the driver Valuer interface.
func (ns NullImportKind) Value() (driver.Value, error) {
	if !ns.Valid {
		return nil, nil
	}
	return string(ns.ImportKind), nil
}

type CourseDetail struct {
	ID            string             `json:"id"`
	CourseType    string             `json:"course_type"`
	ProductSource string             `json:"product_source"`
	EnrollBy      pgtype.Timestamptz `json:"enroll_by"`
	StartDate     pgtype.Timestamptz `json:"start_date"`
	EndDate       pgtype.Timestamptz `json:"end_date"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	ModifiedAt    pgtype.Timestamptz `json:"modified_at"`
}

type CourseOverview struct {
	ID            string             `json:"id"`
	Org           string             `json:"org"`
	StartDate     pgtype.Timestamptz `json:"start_date"`
	EndDate       pgtype.Timestamptz `json:"end_date"`
	EnrollmentEnd pgtype.Timestamptz `json:"enrollment_end"`
}

type ImportStatus struct {
	ID              pgtype.UUID        `json:"id"`
	Kind            ImportKind         `json:"kind"`
	StartedAt       pgtype.Timestamptz `json:"started_at"`
	FinishedAt      pgtype.Timestamptz `json:"finished_at"`
	RecordsWritten  int32              `json:"records_written"`
	RecordsSkipped  int32              `json:"records_skipped"`
	ResumeTimestamp pgtype.Timestamptz `json:"resume_timestamp"`
}

type ServiceUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
