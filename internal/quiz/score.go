package quiz

import "fmt"

// Score returns the percentage of correct answers and whether it reaches
// PassMark. A zero total scores 0.
func Score(correct, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	score := 100 * float64(correct) / float64(total)
	return score, Passed(score)
}

func Passed(score float64) bool {
	return score >= PassMark
}

func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f%%", score)
}
