package pipeline

import (
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
)

// Transform runs the pure stage chain over one raw table: country column
// detection, shape reconciliation, row normalization, the reference join and
// aggregation. A nil refs leaves every geographic field absent.
func Transform(raw domain.RawTable, refs []domain.ReferenceGeoRow) (domain.Result, error) {
	countryColumn, err := domain.DetectCountryColumn(raw)
	if err != nil {
		return domain.Result{}, err
	}

	canonical, err := domain.Reconcile(raw, countryColumn, domain.DetectTypeColumns(raw))
	if err != nil {
		return domain.Result{}, err
	}

	normalized := domain.NormalizeToHundred(canonical)
	geo := domain.Join(normalized, refs)

	result := domain.Assemble(canonical, normalized, geo)
	result.ReferenceAvailable = len(refs) > 0
	return result, nil
}
