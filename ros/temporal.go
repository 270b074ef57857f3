package ros

import (
	"fmt"
	"math"
)

const secondInNanoseconds = 1000000000

// normalizeTemporal carries nsec into sec so that 0 <= nsec < 1e9.
func normalizeTemporal(sec int64, nsec int64) (int64, int64) {
	sec += nsec / secondInNanoseconds
	nsec = nsec % secondInNanoseconds
	if nsec < 0 {
		sec--
		nsec += secondInNanoseconds
	}
	return sec, nsec
}

func checkRange(sec int64, min int64, max int64) {
	if sec < min || sec > max {
		panic(fmt.Sprintf("ros: %d seconds is out of range", sec))
	}
}

func cmpInt64(lhs, rhs int64) int {
	switch {
	case lhs > rhs:
		return 1
	case lhs < rhs:
		return -1
	}
	return 0
}

func splitSeconds(sec float64) (int64, int64) {
	whole := math.Floor(sec)
	return int64(whole), int64(math.Round((sec - whole) * 1e9))
}
