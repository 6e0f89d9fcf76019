package randutil

import "math/rand"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided
// int64, for use by the engine's Randomizer port implementation and by
// deterministic tests. The splitmix64-style mix avoids the weak
// low-bit correlation a bare int64 seed would otherwise hand to
// math/rand's default source on nearby seed values (e.g. --seed 1,
// --seed 2 in the CLI).
func New(seed int64) *rand.Rand {
	mixed := int64(mix(uint64(seed)))
	return rand.New(rand.NewSource(mixed))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	x += goldenRatio64
	return x
}
