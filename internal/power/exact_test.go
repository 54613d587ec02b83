package power

// exactShapley enumerates every arrival order of the players and returns
// each player's exact Shapley value under the mean-contribution game. The
// cost is n!, so it is only meant for small sets.
func exactShapley(contributions []float64) []float64 {
	n := len(contributions)
	values := make([]float64, n)
	if n == 0 {
		return values
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	perms := 0
	var visit func(k int)
	visit = func(k int) {
		if k == n {
			perms++
			sum := 0.0
			for pos, p := range order {
				prev := 0.0
				if pos > 0 {
					prev = sum / float64(pos)
				}
				sum += contributions[p]
				values[p] += sum/float64(pos+1) - prev
			}
			return
		}
		for i := k; i < n; i++ {
			order[k], order[i] = order[i], order[k]
			visit(k + 1)
			order[k], order[i] = order[i], order[k]
		}
	}
	visit(0)

	for i := range values {
		values[i] /= float64(perms)
	}
	return values
}
