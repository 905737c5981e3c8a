package datarow

import (
	"strconv"
	"strings"
)

// insertionThreshold is the partition size below which sortPairs switches to
// insertion sort.
const insertionThreshold = 7

// sortPairs sorts idx[lo:hi] ascending and applies the same permutation to
// vals. It is a quicksort with a median-of-three pivot, median-of-nine for
// partitions above 40 elements.
func sortPairs[T any](idx []int, vals []T, lo, hi int) {
	for hi-lo >= insertionThreshold {
		m := lo + (hi-lo)/2
		if n := hi - lo; n > 40 {
			s := n / 8
			a := med3(idx, lo, lo+s, lo+2*s)
			m = med3(idx, m-s, m, m+s)
			b := med3(idx, hi-1-2*s, hi-1-s, hi-1)
			m = med3(idx, a, m, b)
		} else {
			m = med3(idx, lo, m, hi-1)
		}
		pivot := idx[m]

		i, j := lo, hi-1
		for i <= j {
			for idx[i] < pivot {
				i++
			}
			for idx[j] > pivot {
				j--
			}
			if i <= j {
				idx[i], idx[j] = idx[j], idx[i]
				vals[i], vals[j] = vals[j], vals[i]
				i++
				j--
			}
		}

		// Recurse into the smaller half to bound stack depth.
		if j-lo < hi-i {
			sortPairs(idx, vals, lo, j+1)
			lo = i
		} else {
			sortPairs(idx, vals, i, hi)
			hi = j + 1
		}
	}

	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && idx[j-1] > idx[j]; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
			vals[j-1], vals[j] = vals[j], vals[j-1]
		}
	}
}

// med3 returns the position holding the median of idx[a], idx[b], idx[c].
func med3(idx []int, a, b, c int) int {
	if idx[a] < idx[b] {
		switch {
		case idx[b] < idx[c]:
			return b
		case idx[a] < idx[c]:
			return c
		default:
			return a
		}
	}
	switch {
	case idx[b] > idx[c]:
		return b
	case idx[a] > idx[c]:
		return c
	default:
		return a
	}
}

func writeInt(b *strings.Builder, v int) {
	var buf [20]byte
	b.Write(strconv.AppendInt(buf[:0], int64(v), 10))
}
