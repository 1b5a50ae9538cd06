package randutil

// Shuffle permutes s in place with Fisher-Yates: for i from the last index
// down to 1, pick j uniformly in [0, i] and swap s[i] and s[j].
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Perm returns a uniformly shuffled copy of [0, n).
func Perm(src Source, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	Shuffle(src, p)
	return p
}
