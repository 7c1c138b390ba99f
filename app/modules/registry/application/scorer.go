package registryservice

import (
	"context"

	"github.com/shopspring/decimal"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
)

// WeightedScorer sums the community's configured weight for each distinct
// credential provider present in the stamp set. Duplicate stamps from one
// provider count once; providers without a configured weight contribute
// nothing.
type WeightedScorer struct{}

var _ Scorer = WeightedScorer{}

// ComputeScore implements Scorer.
func (WeightedScorer) ComputeScore(_ context.Context, community *accountdb.Community, stamps []*registrydb.Stamp) (decimal.Decimal, *registrydomain.Evidence, error) {
	total := decimal.Zero
	points := make(map[string]decimal.Decimal)

	for _, stamp := range stamps {
		if _, counted := points[stamp.Provider]; counted {
			continue
		}
		weight, ok := community.Weights[stamp.Provider]
		if !ok {
			continue
		}
		points[stamp.Provider] = weight
		total = total.Add(weight)
	}

	evidence := &registrydomain.Evidence{
		Type:           "ProviderWeights",
		RawScore:       total,
		ProviderPoints: points,
	}

	return total, evidence, nil
}
