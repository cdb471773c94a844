package opt

import "math/rand"

// DefaultK is the default number of customers the destroy operator
// removes per iteration.
const DefaultK = 5

// Destroy draws up to k distinct customers from tabu.Free uniformly
// at random, removes each from sol, and pushes each through the tabu
// FIFO. If free holds fewer than k customers, it uses whatever is
// available (EmptyFree, clamped rather than an error). The removed
// customers are returned as the repair workset; buf is reused across
// calls to avoid allocation in the hot loop.
func Destroy(sol *Solution, tabu *Tabu, k int, rng *rand.Rand, buf []int) []int {
	free := tabu.Free()
	if k > len(free) {
		k = len(free)
	}
	buf = buf[:0]
	for len(buf) < k {
		free = tabu.Free()
		j := rng.Intn(len(free))
		c := free[j]
		// A customer drawn earlier in this call may have been evicted
		// from tabu back into free by a later Push; draw again.
		drawn := false
		for _, x := range buf {
			if x == c {
				drawn = true
				break
			}
		}
		if drawn {
			continue
		}
		sol.Remove(c)
		tabu.Push(c)
		buf = append(buf, c)
	}
	return buf
}

// DestroyIgnoringTabu removes k customers chosen uniformly at random
// from the whole customer domain regardless of tabu membership, used
// for the larger jump-restart destroy. It does not touch tabu state;
// callers clear tabu separately on restart.
func DestroyIgnoringTabu(sol *Solution, n, k int, rng *rand.Rand, buf []int) []int {
	if k > n {
		k = n
	}
	present := buf[:0]
	all := make([]int, 0, n)
	for c := 1; c <= n; c++ {
		if sol.Assign[c] >= 0 {
			all = append(all, c)
		}
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if k > len(all) {
		k = len(all)
	}
	for i := 0; i < k; i++ {
		c := all[i]
		sol.Remove(c)
		present = append(present, c)
	}
	return present
}
