package soc

// differentiate computes the seeds and order-th forward difference of
// seq: residuals are the order-th forward difference of the scaled
// integer sequence (§4.G).
//
// seeds[k] is diffs[k][k], the first value of the k-th difference
// series (order=0 is seq itself); residual is diffs[order][order:],
// i.e. the order-th difference series with its seed values stripped.
// This generalizes the fixed-order-2 delta-of-delta scheme common in
// timestamp encoders to an arbitrary order in [0,7].
func differentiate(seq []int64, order int) (seeds []int64, residual []int64) {
	seeds = make([]int64, order)
	cur := seq
	for level := 0; level < order; level++ {
		if len(cur) == 0 {
			cur = nil
			continue
		}
		seeds[level] = cur[0]
		next := make([]int64, len(cur)-1)
		for i := 1; i < len(cur); i++ {
			next[i-1] = cur[i] - cur[i-1]
		}
		cur = next
	}
	return seeds, cur
}

// integrate is the inverse of differentiate: given the seeds and
// residual series it reconstructs the length-n sequence at order 0.
func integrate(seeds []int64, residual []int64, n int) []int64 {
	order := len(seeds)
	cur := residual
	for level := order - 1; level >= 0; level-- {
		width := n - level
		next := make([]int64, width)
		if width > 0 {
			next[0] = seeds[level]
		}
		for i := 1; i < width; i++ {
			next[i] = next[i-1] + cur[i-1]
		}
		cur = next
	}
	if cur == nil {
		cur = []int64{}
	}
	return cur
}

// gcdInt64 returns the non-negative greatest common divisor of a and b.
func gcdInt64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// chooseScale picks the largest scale >= 1 such that every value in
// values divides evenly by it, their greatest common divisor (§4.G). An
// all-zero signal scales to 1.
func chooseScale(values []int64) int64 {
	var g int64
	for _, v := range values {
		g = gcdInt64(g, v)
		if g == 1 {
			return 1
		}
	}
	if g == 0 {
		return 1
	}
	return g
}

// varintLen returns the ULEB128-encoded length of u, without allocating.
func varintLen(u uint64) int {
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

// zigzagLen returns the SLEB128-encoded length of v.
func zigzagLen(v int64) int {
	return varintLen(uint64((v << 1) ^ (v >> 63)))
}

// maxOrder bounds the forward-difference order the writer will try,
// per the §4.G order-selection rule (order in {0..5}).
const maxOrder = 5

// chooseOrder tries every order in [0, maxOrder] and returns the one
// with the smallest estimated encoded length (seeds plus zigzag-length
// of every residual), breaking ties toward the lowest order.
func chooseOrder(scaled []int64) (order int, seeds, residual []int64) {
	bestLen := -1
	for o := 0; o <= maxOrder && o <= len(scaled); o++ {
		s, r := differentiate(scaled, o)
		length := 0
		for _, v := range s {
			length += zigzagLen(v)
		}
		for _, v := range r {
			length += zigzagLen(v)
		}
		if bestLen < 0 || length < bestLen {
			bestLen = length
			order, seeds, residual = o, s, r
		}
	}
	return order, seeds, residual
}
