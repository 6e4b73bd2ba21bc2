package models

import "time"

// Student represents a learner enrolled in one of the three year levels.
type Student struct {
	ID        string     `db:"id" json:"id"`
	LastName  string     `db:"last_name" json:"last_name"`
	FirstName string     `db:"first_name" json:"first_name"`
	Class     string     `db:"class" json:"class"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName returns "<first> <last>", the order printed on bulletins.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Class     string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
