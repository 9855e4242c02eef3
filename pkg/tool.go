package pkg

// Contains check source have target
func Contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// OrderPair return the pair in canonical order, lower id first.
// Every pair-keyed table (matches, chat rooms) stores and queries
// with this ordering so lookups never check both directions.
func OrderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
