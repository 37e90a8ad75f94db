package uprove

import (
	"fmt"

	"github.com/go-errors/errors"
)

const (
	// RecommendedProfile prefixes the derivation context of the recommended
	// elliptic curve parameters.
	RecommendedProfile = "U-Prove Recommended Parameters Profile"

	// NumberOfRecommendedGenerators is the number of pregenerated g_i.
	NumberOfRecommendedGenerators = 50

	IndexGt = 255
	IndexGd = 254
)

// RecommendedGenerators holds the derived generators g_1, ..., g_n, g_t and
// g_d of a group, with the counters at which each derivation ended.
type RecommendedGenerators struct {
	G        []GroupElement
	Counters []int
	Gt       GroupElement
	CounterT int
	Gd       GroupElement
	CounterD int
}

// RecommendedContext returns the derivation context of the named recommended
// curve group.
func RecommendedContext(name string) []byte {
	return []byte(RecommendedProfile + name)
}

// DeriveGenerators derives g_i for the indices 1 to n, g_t at IndexGt and g_d
// at IndexGd. n must leave the indices of g_t and g_d free.
func DeriveGenerators(grp Group, context []byte, n int) (*RecommendedGenerators, error) {
	if n < 0 || n >= IndexGd {
		return nil, errors.Errorf("cannot derive %d generators", n)
	}
	gens := &RecommendedGenerators{
		G:        make([]GroupElement, n),
		Counters: make([]int, n),
	}
	var err error
	for i := 0; i < n; i++ {
		if gens.G[i], gens.Counters[i], err = grp.DeriveElement(context, byte(i+1)); err != nil {
			return nil, errors.WrapPrefix(err, fmt.Sprintf("g_%d", i+1), 0)
		}
	}
	if gens.Gt, gens.CounterT, err = grp.DeriveElement(context, IndexGt); err != nil {
		return nil, errors.WrapPrefix(err, "g_t", 0)
	}
	if gens.Gd, gens.CounterD, err = grp.DeriveElement(context, IndexGd); err != nil {
		return nil, errors.WrapPrefix(err, "g_d", 0)
	}
	return gens, nil
}

// DeriveRecommendedGenerators derives the NumberOfRecommendedGenerators
// generators of a group in DefaultGroups.
func DeriveRecommendedGenerators(grp *ECGroup) (*RecommendedGenerators, error) {
	return DeriveGenerators(grp, RecommendedContext(grp.Name()), NumberOfRecommendedGenerators)
}
