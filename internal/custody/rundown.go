package custody

// OpeningSource records how a report's opening balance was derived.
// The full fallback cascade lives outside this core; within it the
// three provenance tags below are the only ones ever stamped.
type OpeningSource string

const (
	OpeningExplicit    OpeningSource = "explicit"
	OpeningCarried     OpeningSource = "carried_forward"
	OpeningAssumedZero OpeningSource = "assumed_zero"
)

// Grade reflects how much a rundown's numbers should be trusted,
// driven entirely by the opening balance provenance.
type Grade string

const (
	GradeVerified    Grade = "verified"
	GradeEstimated   Grade = "estimated"
	GradeProvisional Grade = "provisional"
)

func GradeFor(src OpeningSource) Grade {
	switch src {
	case OpeningExplicit:
		return GradeVerified
	case OpeningCarried:
		return GradeEstimated
	default:
		return GradeProvisional
	}
}

// Win computes the reconciled win:
//
//	win = closing + credits + drop - opening - fills
//
// Nil is returned when the closing balance or the drop is unknown. An
// unknown drop must never collapse to zero; that would silently
// overstate win.
func Win(openingCents int64, closingCents *int64, fillsCents, creditsCents int64, dropCents *int64) *int64 {
	if closingCents == nil || dropCents == nil {
		return nil
	}
	w := *closingCents + creditsCents + *dropCents - openingCents - fillsCents
	return &w
}
