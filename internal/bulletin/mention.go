package bulletin

// Mention is the qualitative label attached to an overall average.
type Mention string

const (
	MentionExcellent    Mention = "Excellent"
	MentionVeryGood     Mention = "Très Bien"
	MentionGood         Mention = "Bien"
	MentionFairlyGood   Mention = "Assez Bien"
	MentionInsufficient Mention = "Insuffisant"
)

// Classify maps an average out of 20 to its mention. Lower bounds are
// inclusive and the input is not validated: out of range values go through
// the same ladder and NaN is Insuffisant.
func Classify(average float64) Mention {
	switch {
	case average >= 16:
		return MentionExcellent
	case average >= 14:
		return MentionVeryGood
	case average >= 12:
		return MentionGood
	case average >= 10:
		return MentionFairlyGood
	default:
		return MentionInsufficient
	}
}
