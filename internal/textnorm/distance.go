package textnorm

// EditDistance returns the Levenshtein distance between a and b, or bound+1
// as soon as the distance is known to exceed bound.
func EditDistance(a, b string, bound int) int {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	if diff := la - lb; diff > bound || -diff > bound {
		return bound + 1
	}
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := prev[j-1] + cost
			if d := prev[j] + 1; d < v {
				v = d
			}
			if d := curr[j-1] + 1; d < v {
				v = d
			}
			curr[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		if rowMin > bound {
			return bound + 1
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Similarity is 1 - lev(a,b)/max(len a, len b), in [0,1].
func Similarity(a, b string) float64 {
	m := len(a)
	if len(b) > m {
		m = len(b)
	}
	if m == 0 {
		return 1
	}
	return 1 - float64(EditDistance(a, b, m))/float64(m)
}
