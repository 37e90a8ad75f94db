package ec

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/privacybydesign/uprove/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecompCacheGetSet(t *testing.T) {
	c, g := p256(t, JacobianModified)
	cache := c.Precomp()
	p := g.Twice()

	assert.Nil(t, cache.Get(p, "test"))
	cache.Set(p, "test", 42)
	assert.Equal(t, 42, cache.Get(p, "test"))
	assert.Nil(t, cache.Get(p, "other"))
	assert.Nil(t, cache.Get(p.detached(), "test"))
	runtime.KeepAlive(p)
}

func TestPrecompConcurrentFirstUse(t *testing.T) {
	c, g := p256(t, JacobianModified)
	p := g.Multiply(randomScalar(t, c.Order()))
	k := randomScalar(t, c.Order())
	before := c.Precomp().Len()

	var builds int32
	var wg sync.WaitGroup
	results := make([]*Point, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Precomp().Compute(p, "counter", func(existing PrecompInfo) PrecompInfo {
				if existing == nil {
					atomic.AddInt32(&builds, 1)
					return struct{}{}
				}
				return existing
			})
			results[i] = p.Multiply(k)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds)
	assert.Equal(t, before+1, c.Precomp().Len())
	for _, r := range results[1:] {
		requirePointEqual(t, results[0], r)
	}
	runtime.KeepAlive(g)
	runtime.KeepAlive(p)
}

func TestPrecompWidths(t *testing.T) {
	c, g := p256(t, Jacobian)
	p := g.Multiply(randomScalar(t, c.Order()))

	// a 256 bit scalar uses width 5
	p.Multiply(randomScalar(t, c.Order()))
	info := c.Precomp().Get(p, PrecompWNaf).(*WNafPrecompInfo)
	assert.Equal(t, 5, info.Width)
	assert.Len(t, info.PreComp, 8)
	assert.Len(t, info.PreCompNeg, 8)
	require.NotNil(t, info.Twice)
	requirePointEqual(t, p.Twice(), info.Twice)
	for i, q := range info.PreComp {
		assert.NotSame(t, p, q)
		assert.True(t, q.IsNormalized())
		requirePointEqual(t, p.Multiply(big.NewInt(int64(2*i+1))), q)
		requirePointEqual(t, q.Negate(), info.PreCompNeg[i])
	}

	// narrower requests reuse the table
	p.Multiply(big.NewInt(5))
	assert.Same(t, info, c.Precomp().Get(p, PrecompWNaf))

	// wider requests replace it
	big2000 := new(big.Int).Lsh(big.NewInt(1), 2000)
	p.Multiply(big2000)
	wider := c.Precomp().Get(p, PrecompWNaf).(*WNafPrecompInfo)
	assert.Equal(t, 7, wider.Width)
	assert.Len(t, wider.PreComp, 32)
	assert.Equal(t, 5, info.Width, "published tables are immutable")
}

func TestPrecompSmallTables(t *testing.T) {
	_, g := p256(t, Homogeneous)

	info := precompute(g, 2)
	require.Len(t, info.PreComp, 1)
	assert.NotSame(t, g, info.PreComp[0])
	requirePointEqual(t, g, info.PreComp[0])
	assert.Nil(t, info.Twice)

	_, h := p256(t, Homogeneous)
	info = precompute(h, 3)
	require.Len(t, info.PreComp, 2)
	requirePointEqual(t, h.ThreeTimes(), info.PreComp[1])
}

func TestPrecompEviction(t *testing.T) {
	c, g := p256(t, JacobianModified)
	// g gets its own table on first use
	g.Multiply(randomScalar(t, c.Order()))
	before := c.Precomp().Len()
	require.Equal(t, 1, before)

	func() {
		p := g.Multiply(randomScalar(t, c.Order()))
		p.Multiply(randomScalar(t, c.Order()))
		require.Equal(t, before+1, c.Precomp().Len())
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return c.Precomp().Len() == before
	}, 5*time.Second, 10*time.Millisecond)
	runtime.KeepAlive(g)
}
