package gomag

import (
	"errors"
	"fmt"
	"math/rand"
)

// Check runs a self-consistency test of the grid: every composite index
// must survive a decode/encode round trip, lookups at n random nodes must
// return the stored sample exactly and find that node as their nearest
// neighbor, and n random points must give identical results with and
// without the cell cache. A nil rng uses a fixed seed.
//
// Check does not modify g's cache: it works on Refs.
func Check(g *Grid, n int, rng *rand.Rand) error {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	var idx [3]int
	for i := range g.vals {
		if err := g.decode(i, &idx); err != nil {
			return fmt.Errorf("decoding index %d: %w", i, err)
		}
		if j := g.encode(idx); j != i {
			return fmt.Errorf(
				"%w: index %d decodes to %v, which encodes to %d",
				ErrInvariant, i, idx, j,
			)
		}
	}

	ref := g.Ref()
	for k := 0; k < n; k++ {
		i := rng.Intn(len(g.vals))
		phi, rho, z, err := ref.Location(i)
		if err != nil {
			return err
		}

		b, err := ref.lookup(phi, rho, z)
		if err != nil {
			return fmt.Errorf("node %d at (%g, %g, %g): %w", i, phi, rho, z, err)
		}
		if b != g.vals[i] {
			return fmt.Errorf(
				"%w: node %d at (%g, %g, %g) interpolates to %v, stored %v",
				ErrInvariant, i, phi, rho, z, b, g.vals[i],
			)
		}

		_, j, err := ref.nearest(phi, rho, z)
		if err != nil {
			return err
		}
		if j != i {
			return fmt.Errorf(
				"%w: nearest node to node %d is %d", ErrInvariant, i, j,
			)
		}
	}

	cached, uncached := g.Ref(), g.Ref()
	cached.SetCaching(true)
	uncached.SetCaching(false)
	for k := 0; k < n; k++ {
		phi, rho, z := g.randomPoint(rng)
		b1, err1 := cached.lookup(phi, rho, z)
		b2, err2 := uncached.lookup(phi, rho, z)
		if b1 != b2 || !errors.Is(err1, err2) {
			return fmt.Errorf(
				"%w: cached lookup at (%g, %g, %g) gave %v (%v), uncached %v (%v)",
				ErrInvariant, phi, rho, z, b1, err1, b2, err2,
			)
		}
	}

	return nil
}

// encode is the inverse of decode.
func (g *Grid) encode(idx [3]int) int {
	if g.Kind == Solenoid {
		if g.layout == ZMajor {
			return g.bi.Indexer().Index2(idx[2], idx[1])
		}
		return g.bi.Indexer().Index2(idx[1], idx[2])
	}
	if g.layout == ZMajor {
		return g.tri.Indexer().Index3(idx[2], idx[1], idx[0])
	}
	return g.tri.Indexer().Index3(idx[0], idx[1], idx[2])
}

// randomPoint returns a uniformly distributed point in the grid's own
// cylindrical frame.
func (g *Grid) randomPoint(rng *rand.Rand) (phi, rho, z float64) {
	if g.phi != nil {
		phi = uniform(rng, g.phi.Min(), g.phi.Max())
	}
	return phi, uniform(rng, g.rho.Min(), g.rho.Max()),
		uniform(rng, g.z.Min(), g.z.Max())
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
