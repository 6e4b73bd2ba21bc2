package bulletin

import (
	"fmt"
	"strings"
)

// Period scopes which grades participate in an aggregation.
type Period string

const (
	Semester1 Period = "semester1"
	Semester2 Period = "semester2"
	FinalExam Period = "final"
)

// ParsePeriod accepts the canonical names and a few aliases used by clients.
func ParsePeriod(raw string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "semester1", "semestre1", "s1", "1":
		return Semester1, nil
	case "semester2", "semestre2", "s2", "2":
		return Semester2, nil
	case "final", "final_exam", "examen_final":
		return FinalExam, nil
	}
	return "", fmt.Errorf("unknown period %q", raw)
}

// Valid reports whether p is one of the three known periods.
func (p Period) Valid() bool {
	return p == Semester1 || p == Semester2 || p == FinalExam
}

// Semester returns the grade semester number for semester periods and 0 otherwise.
func (p Period) Semester() int {
	switch p {
	case Semester1:
		return 1
	case Semester2:
		return 2
	}
	return 0
}

// Title is the heading printed on the bulletin.
func (p Period) Title() string {
	switch p {
	case Semester1:
		return "BULLETIN DE NOTES - 1er SEMESTRE"
	case Semester2:
		return "BULLETIN DE NOTES - 2ème SEMESTRE"
	case FinalExam:
		return "RELEVÉ DE NOTES - EXAMEN FINAL"
	}
	return ""
}

// AverageLabel introduces the overall average in the bulletin footer.
func (p Period) AverageLabel() string {
	if p == FinalExam {
		return "Moyenne finale"
	}
	return "Moyenne du semestre"
}
