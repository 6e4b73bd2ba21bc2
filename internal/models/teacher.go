package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor record.
type Teacher struct {
	ID        string         `db:"id" json:"id"`
	LastName  string         `db:"last_name" json:"last_name"`
	FirstName string         `db:"first_name" json:"first_name"`
	CourseIDs pq.StringArray `db:"course_ids" json:"course_ids"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// DisplayName is the name shown next to a course on a bulletin.
func (t Teacher) DisplayName() string {
	return t.FirstName + " " + t.LastName
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search   string
	Page     int
	PageSize int
}
