package natmod

import (
	"errors"
	"time"

	"github.com/byteguy8/zeus/lang/objects"
)

// xoshiro256 is a reimplementation of original_source/src/native/
// xoshiro256.c's generator, seeded via splitmix64.c's mixing step, as a
// plain Go PRNG object (no cgo, no shared global state across VMs).
type xoshiro256 struct {
	s [4]uint64
}

func splitmix64Next(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func (x *xoshiro256) seed(s uint64) {
	for i := range x.s {
		x.s[i] = splitmix64Next(&s)
	}
}

func rotl(x uint64, k uint) uint64 { return (x << k) | (x >> (64 - k)) }

// next implements xoshiro256** next.
func (x *xoshiro256) next() uint64 {
	result := rotl(x.s[1]*5, 7) * 9

	t := x.s[1] << 17
	x.s[2] ^= x.s[0]
	x.s[3] ^= x.s[1]
	x.s[1] ^= x.s[2]
	x.s[0] ^= x.s[3]
	x.s[2] ^= t
	x.s[3] = rotl(x.s[3], 45)

	return result
}

func (x *xoshiro256) nextFloat() float64 {
	return float64(x.next()>>11) * (1.0 / (1 << 53))
}

func newRandom() *objects.NativeModuleObj {
	gen := &xoshiro256{}
	gen.seed(uint64(time.Now().UnixNano()))

	mod := &objects.NativeModuleObj{Name: "random", Symbols: make(map[string]objects.Value)}

	mod.Symbols["seed"] = nativeFn("random", "seed", 1, func(a []objects.Value) (objects.Value, error) {
		n, ok := asInt(a[0])
		if !ok {
			return objects.Empty, errors.New("random.seed: expected int")
		}
		gen.seed(uint64(n))
		return objects.Empty, nil
	})

	mod.Symbols["int"] = nativeFn("random", "int", 0, func(a []objects.Value) (objects.Value, error) {
		return objects.Int(int64(gen.next() >> 1)), nil
	})

	mod.Symbols["float"] = nativeFn("random", "float", 0, func(a []objects.Value) (objects.Value, error) {
		return objects.Float(gen.nextFloat()), nil
	})

	return mod
}
