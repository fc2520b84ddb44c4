package services

import (
	"fmt"
	"math/rand"
)

// Word pools for generated sample names.
var (
	nameAdjectives = []string{
		"amber", "azure", "bold", "cosmic", "crimson", "electric",
		"emerald", "golden", "jade", "lunar", "midnight", "purple",
		"radiant", "silver", "solar", "stellar", "swift", "velvet",
	}
	nameNouns = []string{
		"aurora", "beacon", "cascade", "comet", "crystal", "garden",
		"harbor", "horizon", "island", "meadow", "nebula", "oasis",
		"prism", "river", "summit", "valley",
	}
)

// randomSampleName produces a memorable default name for a sample,
// with a short random suffix to keep names distinct.
func randomSampleName(rng *rand.Rand) string {
	adjective := nameAdjectives[rng.Intn(len(nameAdjectives))]
	noun := nameNouns[rng.Intn(len(nameNouns))]
	return fmt.Sprintf("%s-%s-%03d", adjective, noun, rng.Intn(1000))
}
