package hashformat

import "github.com/spaolacci/murmur3"

// HashKey computes the Murmur3-family hash of key under the given
// algorithm/seed, returning it widened to uint64. Built on
// github.com/spaolacci/murmur3, a direct requirement in go.mod.
func HashKey(algo HashAlgorithm, seed uint64, key []byte) uint64 {
	if algo == Hash32 {
		return uint64(murmur3.Sum32WithSeed(key, uint32(seed)))
	}
	return murmur3.Sum64WithSeed(key, uint32(seed))
}
