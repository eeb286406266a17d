package fingerprint

// #region imports
import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/signet/internal/phase"
	"github.com/danielpatrickdp/signet/internal/quadrant"
)

// #endregion imports

// #region constants

// Empty is the fixed fingerprint of the empty signature.
const Empty = "EP-00000000"

// hashSeed and hashMultiplier define the rolling multiply-add hash. The
// exact values are part of the fingerprint contract: identical quantized
// inputs must produce identical fingerprints across runs and versions.
const (
	hashSeed       uint32 = 17
	hashMultiplier uint32 = 31
)

// #endregion constants

// #region compute

// Compute hashes the quantized signature components into an 8-hex-digit
// identifier prefixed EP-. Components are rounded to two decimal places
// (x100, integer) before hashing, so near-identical signatures collapse to
// the same fingerprint.
func Compute(q quadrant.Profile, f phase.Flow, archetype string, intensity float64) string {
	h := hashSeed

	for _, v := range []float64{
		q.Q1, q.Q2, q.Q3, q.Q4, q.Center,
		f.Opening, f.Middle, f.Ending, f.Momentum,
		intensity,
	} {
		h = h*hashMultiplier + quantize(v)
	}
	for _, c := range []byte(string(f.Trend)) {
		h = h*hashMultiplier + uint32(c)
	}
	for _, c := range []byte(archetype) {
		h = h*hashMultiplier + uint32(c)
	}

	return fmt.Sprintf("EP-%08X", h)
}

// quantize rounds v to two decimals and maps it into uint32 space.
// Momentum may be negative; the offset keeps the mapping injective over
// the [-1,1] component range.
func quantize(v float64) uint32 {
	return uint32(int32(math.Round(v*100)) + 1000)
}

// #endregion compute
