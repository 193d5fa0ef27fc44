package model

/* ===================== Grade ladder ===================== */

// GradeLadder is the fixed, ordered sequence of grade levels. Promotion moves
// a student one step to the right; the last entry is terminal.
var GradeLadder = []string{
	"KG 1",
	"KG 2",
	"Basic 1",
	"Basic 2",
	"Basic 3",
	"Basic 4",
	"Basic 5",
	"Basic 6",
	"Basic 7",
	"Basic 8",
	"Basic 9",
}

// NextGrade returns the grade after g. ok is false when g is the final grade
// or not on the ladder at all.
func NextGrade(g string) (next string, ok bool) {
	for i, grade := range GradeLadder {
		if grade == g {
			if i == len(GradeLadder)-1 {
				return "", false
			}
			return GradeLadder[i+1], true
		}
	}
	return "", false
}

func IsFinalGrade(g string) bool {
	return len(GradeLadder) > 0 && g == GradeLadder[len(GradeLadder)-1]
}

func IsValidGrade(g string) bool {
	for _, grade := range GradeLadder {
		if grade == g {
			return true
		}
	}
	return false
}
