package models

// DashboardStudent ranks a student by their overall grade mean.
type DashboardStudent struct {
	StudentID string  `json:"student_id"`
	FullName  string  `json:"full_name"`
	Class     string  `json:"class"`
	Average   float64 `json:"average"`
}

// Dashboard summarises the school at a glance.
type Dashboard struct {
	StudentCount    int                `json:"student_count"`
	TeacherCount    int                `json:"teacher_count"`
	CourseCount     int                `json:"course_count"`
	GradeCount      int                `json:"grade_count"`
	SchoolAverage   float64            `json:"school_average"`
	StudentsByClass map[string]int     `json:"students_by_class"`
	TopStudents     []DashboardStudent `json:"top_students"`
}
