package models

import (
	"fmt"
	"time"
)

// Settings is the institute header printed on every bulletin. A single row is stored.
type Settings struct {
	InstituteName         string    `db:"institute_name" json:"institute_name"`
	InstituteAddress      string    `db:"institute_address" json:"institute_address"`
	InstitutePhone        string    `db:"institute_phone" json:"institute_phone"`
	InstituteEmail        string    `db:"institute_email" json:"institute_email"`
	InstituteWebsite      string    `db:"institute_website" json:"institute_website"`
	AcademicYearStart     time.Time `db:"academic_year_start" json:"academic_year_start"`
	AcademicYearEnd       time.Time `db:"academic_year_end" json:"academic_year_end"`
	AcademicDirectorName  string    `db:"academic_director_name" json:"academic_director_name"`
	AcademicDirectorTitle string    `db:"academic_director_title" json:"academic_director_title"`
	GeneralDirectorName   string    `db:"general_director_name" json:"general_director_name"`
	GeneralDirectorTitle  string    `db:"general_director_title" json:"general_director_title"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// AcademicYear formats the year span, e.g. "2024-2025".
func (s Settings) AcademicYear() string {
	return fmt.Sprintf("%d-%d", s.AcademicYearStart.Year(), s.AcademicYearEnd.Year())
}
