package extract

import (
	"errors"
	"math"
	"strconv"
)

// Integer returns the value of the first maximal run of decimal digits in raw.
// Runs too long for an int saturate at math.MaxInt.
func Integer(raw string) (int, error) {
	start := -1
	end := len(raw)
	for i := 0; i < len(raw); i++ {
		isDigit := raw[i] >= '0' && raw[i] <= '9'
		if start == -1 && isDigit {
			start = i
			continue
		}
		if start != -1 && !isDigit {
			end = i
			break
		}
	}
	if start == -1 {
		return 0, failure("integer", "no digits found", nil)
	}

	n, err := strconv.Atoi(raw[start:end])
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt, nil
		}
		return 0, failure("integer", "invalid digit run", err)
	}
	return n, nil
}
