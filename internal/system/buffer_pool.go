package system

import "sync"

// FloatPool hands out zeroed []float64 scratch buffers grouped by length.
// Template matching allocates two summed-area tables per call; the pool
// keeps batch runs from churning the GC.
type FloatPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &FloatPool{
	pools: make(map[int]*sync.Pool),
}

// GetFloats returns a zeroed slice of length n.
func GetFloats(n int) []float64 {
	return globalPool.Get(n)
}

// PutFloats returns a slice obtained from GetFloats.
func PutFloats(s []float64) {
	globalPool.Put(s)
}

func (p *FloatPool) Get(n int) []float64 {
	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[n]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					s := make([]float64, n)
					return &s
				},
			}
			p.pools[n] = pool
		}
		p.mu.Unlock()
	}

	s := *pool.Get().(*[]float64)
	clear(s)
	return s
}

func (p *FloatPool) Put(s []float64) {
	if s == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[len(s)]
	p.mu.RUnlock()

	if exists {
		pool.Put(&s)
	}
}
