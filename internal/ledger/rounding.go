package ledger

// roundDivHalfEven divides num by den and rounds the quotient to the nearest
// integer, ties to even (banker's rounding). den must be positive; num must
// be non-negative. All monetary math in this package goes through here so
// that every amount lands on the currency's minor unit the same way.
func roundDivHalfEven(num, den int64) int64 {
	q := num / den
	r := num % den
	switch {
	case 2*r < den:
		return q
	case 2*r > den:
		return q + 1
	default:
		// exact half: round to the even neighbour
		if q%2 == 0 {
			return q
		}
		return q + 1
	}
}

// percentOf returns pct percent of amount in minor units, rounded half to even.
func percentOf(amount int64, pct int) int64 {
	return roundDivHalfEven(amount*int64(pct), 100)
}
