package opt

// Tabu splits {1..N} into two disjoint sets, free and tabu, with a
// FIFO eviction order on the tabu side. Only customers in free may be
// picked by the destroy operator.
type Tabu struct {
	n         int
	inTabu    []bool
	free      []int // customers currently free, order irrelevant
	freeIndex []int // customer -> index in free, or -1
	order     []int // ring buffer of tabu customers, capacity limit
	head      int   // index of the oldest entry in order
	count     int   // number of occupied slots in order
	limit     int   // ceil(0.10 * n), at least 1
}

// NewTabu builds a Tabu over customers 1..n with every customer
// initially free.
func NewTabu(n int, fraction float64) *Tabu {
	limit := int(fraction*float64(n) + 0.999999)
	if limit < 1 {
		limit = 1
	}
	t := &Tabu{
		n:         n,
		inTabu:    make([]bool, n+1),
		free:      make([]int, 0, n),
		freeIndex: make([]int, n+1),
		order:     make([]int, limit),
		limit:     limit,
	}
	t.Reset()
	return t
}

// Reset clears all tabu state, returning every customer to free.
func (t *Tabu) Reset() {
	t.free = t.free[:0]
	t.head = 0
	t.count = 0
	for c := 1; c <= t.n; c++ {
		t.inTabu[c] = false
		t.free = append(t.free, c)
		t.freeIndex[c] = len(t.free) - 1
	}
}

// Free returns the current free set. Callers must not retain it
// across a mutating call.
func (t *Tabu) Free() []int { return t.free }

// Len returns the number of customers currently in the tabu set.
func (t *Tabu) Len() int { return t.count }

// removeFree removes customer c from the free set in O(1) via
// swap-with-last, keeping freeIndex consistent.
func (t *Tabu) removeFree(c int) {
	i := t.freeIndex[c]
	last := len(t.free) - 1
	t.free[i] = t.free[last]
	t.freeIndex[t.free[i]] = i
	t.free = t.free[:last]
	t.freeIndex[c] = -1
}

// Push moves customer c from free into tabu, evicting the oldest
// tabu entry back into free if the FIFO is at capacity. Zero heap
// allocation: order is a preallocated ring buffer of size limit.
func (t *Tabu) Push(c int) {
	if t.inTabu[c] {
		return
	}
	t.removeFree(c)
	t.inTabu[c] = true
	if t.count == t.limit {
		evicted := t.order[t.head]
		t.head = (t.head + 1) % t.limit
		t.count--
		t.inTabu[evicted] = false
		t.free = append(t.free, evicted)
		t.freeIndex[evicted] = len(t.free) - 1
	}
	tail := (t.head + t.count) % t.limit
	t.order[tail] = c
	t.count++
}
