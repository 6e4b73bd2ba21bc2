package models

import "time"

// Grade is a single mark out of 20 recorded for a student in a course.
type Grade struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Value     float64   `db:"value" json:"value"`
	Semester  int       `db:"semester" json:"semester"`
	Remark    *string   `db:"remark" json:"remark,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GradeFilter allows querying of grade entries.
type GradeFilter struct {
	StudentID string
	CourseID  string
	Semester  int
	Page      int
	PageSize  int
}
