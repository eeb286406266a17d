package corpus

// #region imports
import (
	"context"
	"time"

	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region record

// Record is one stored historical (signature, outcome) pair.
type Record struct {
	ID          string
	Domain      string
	Fingerprint string
	Signature   signature.Signature
	Outcome     string
	CreatedAt   time.Time
}

// #endregion record

// #region provider

// Provider supplies match candidates for a query signature. The sqlite
// backend returns the most recent records; the Postgres backend prefilters
// by vector distance.
type Provider interface {
	Candidates(ctx context.Context, domain string, sig signature.Signature, limit int) ([]matcher.Record, error)
}

// #endregion provider

// #region vector

// VectorDims is the flattened signature dimensionality: five quadrant
// weights, three phase averages, momentum.
const VectorDims = 9

// Flatten projects a signature onto the fixed 9-dimensional embedding used
// for vector prefiltering. Component order is part of the stored-data
// contract and must not change.
func Flatten(sig signature.Signature) []float32 {
	return []float32{
		float32(sig.Quadrants.Q1),
		float32(sig.Quadrants.Q2),
		float32(sig.Quadrants.Q3),
		float32(sig.Quadrants.Q4),
		float32(sig.Quadrants.Center),
		float32(sig.Flow.Opening),
		float32(sig.Flow.Middle),
		float32(sig.Flow.Ending),
		float32(sig.Flow.Momentum),
	}
}

// #endregion vector
