package archetype

// #region imports
import (
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region definition

// Definition is a named, domain-specific classification bucket with an
// associated historical-outcome profile. The engine consumes it only as a
// confidence/guidance input to the trajectory predictor.
type Definition struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	SuccessRate      float64  `json:"success_rate"`
	PredictedOutcome string   `json:"predicted_outcome"`
	Confidence       float64  `json:"confidence"`
	Keywords         []string `json:"keywords,omitempty"`
	Related          []string `json:"related,omitempty"`
}

// #endregion definition

// #region registry

// Registry maps archetype IDs to definitions for one domain.
type Registry struct {
	Domain     string                `json:"domain"`
	Version    string                `json:"version"`
	Archetypes map[string]Definition `json:"archetypes"`
}

// Lookup returns the definition for id, or nil when unknown.
func (r Registry) Lookup(id string) *Definition {
	def, ok := r.Archetypes[id]
	if !ok {
		return nil
	}
	return &def
}

// #endregion registry

// #region domain-adapter

// State is one domain-specific position in a sequence (a repository tree,
// a board position, an order book). Opaque to the engine.
type State = any

// DomainAdapter is the capability set a domain plugs into the engine.
// The engine never inspects domain fields beyond the base Signature shape
// and never branches on a domain tag.
type DomainAdapter interface {
	// ParseInput turns raw domain input into an ordered state sequence.
	ParseInput(raw string) ([]State, error)
	// ExtractSignature produces the domain's signature for the states.
	ExtractSignature(states []State) (signature.Signature, error)
	// ClassifyArchetype assigns an archetype ID to a signature.
	ClassifyArchetype(sig signature.Signature) string
	// ArchetypeRegistry exposes the domain's archetype definitions.
	ArchetypeRegistry() Registry
	// CalculateSimilarity may refine the generic similarity with domain
	// knowledge. Result is in [0,1].
	CalculateSimilarity(a, b signature.Signature) float64
	// RenderState formats one state for display.
	RenderState(state State) string
}

// #endregion domain-adapter
