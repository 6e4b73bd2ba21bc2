package bulletin

// ComputeOverallAverage is the coefficient-weighted mean of the course
// averages, rounded to two decimals. It is 0 when there are no rows or the
// coefficients sum to zero.
func ComputeOverallAverage(averages []CourseAverage) float64 {
	if len(averages) == 0 {
		return 0
	}

	var points float64
	var coefficients int
	for _, a := range averages {
		points += a.Average * float64(a.Coefficient)
		coefficients += a.Coefficient
	}
	if coefficients == 0 {
		return 0
	}

	return Round2(points / float64(coefficients))
}

// AnnualAverage rounds the plain mean of the two semester overalls, which
// are themselves already rounded.
func AnnualAverage(semester1, semester2 float64) float64 {
	return Round2((semester1 + semester2) / 2)
}
