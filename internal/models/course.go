package models

import "time"

// Course is a taught unit. Courses flagged IsFinalExam belong to the final
// examination track instead of the regular semesters.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	SubjectName string    `db:"subject_name" json:"subject_name"`
	Coefficient int       `db:"coefficient" json:"coefficient"`
	Hours       *int      `db:"hours" json:"hours,omitempty"`
	TeacherID   *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	IsFinalExam bool      `db:"is_final_exam" json:"is_final_exam"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter scopes course listings.
type CourseFilter struct {
	Search      string
	TeacherID   string
	IsFinalExam *bool
	Page        int
	PageSize    int
}
