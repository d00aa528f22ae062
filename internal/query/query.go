// Package query filters the record store by airport codes and field names
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/internal/metrics"
	"github.com/yegors/airport-readiness/internal/schema"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// CheckKey is the key of the per-airport field projection
const CheckKey = "CHECK"

// Selection is the resolved input of a query: normalized airport codes in request
// order (duplicates kept) and the field names that were projected.
type Selection struct {
	Codes  []string `json:"codes"`
	Fields []string `json:"fields"`
}

// Airport is the projection of one airport record
type Airport struct {
	Check map[string]checklist.Value `json:"CHECK"`
}

// Result maps airport codes found in the store to their projection
type Result map[string]Airport

// Codes returns the result codes in selection order
func (r Result) Codes(sel Selection) []string {
	codes := make([]string, 0, len(r))
	seen := make(map[string]bool, len(r))
	for _, c := range sel.Codes {
		if _, ok := r[c]; ok && !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	return codes
}

// Loader is the subset of the record store a query needs
type Loader interface {
	Load(ctx context.Context) (map[string]checklist.Record, error)
}

// ParseAirports splits a comma-separated list of airport codes
func ParseAirports(s string) []string {
	parts := strings.Split(s, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		codes = append(codes, checklist.NormalizeCode(p))
	}
	return codes
}

// Resolve normalizes the requested codes and defaults an empty field list to
// every schema field in schema order
func Resolve(codes, fields []string) Selection {
	sel := Selection{
		Codes:  make([]string, 0, len(codes)),
		Fields: append([]string(nil), fields...),
	}
	for _, c := range codes {
		sel.Codes = append(sel.Codes, checklist.NormalizeCode(c))
	}
	if len(sel.Fields) == 0 {
		sel.Fields = schema.AllFields()
	}
	return sel
}

// Project builds the result for sel from the given records. Codes not in
// records are omitted; missing fields take their default value.
func Project(records map[string]checklist.Record, sel Selection) Result {
	result := Result{}
	for _, code := range sel.Codes {
		record, ok := records[code]
		if !ok || code == "" {
			continue
		}
		check := make(map[string]checklist.Value, len(sel.Fields))
		for _, f := range sel.Fields {
			check[f] = record.Lookup(f)
		}
		result[code] = Airport{Check: check}
	}
	return result
}

// Service runs checklist queries against the record store
type Service struct {
	store   Loader
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService creates a new query service. m may be nil.
func NewService(store Loader, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		metrics: m,
		logger:  log.Named("query"),
	}
}

// Run filters the store by codes and fields. It returns the projection and the
// resolved selection, which the caller hands to the report generator.
func (s *Service) Run(ctx context.Context, codes, fields []string) (Result, Selection, error) {
	sel := Resolve(codes, fields)

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, sel, fmt.Errorf("failed to load airport records: %w", err)
	}

	result := Project(records, sel)
	s.metrics.RecordQuery(len(result))

	s.logger.Debug("Checklist query",
		logger.Strings("airports", sel.Codes),
		logger.Int("fields", len(sel.Fields)),
		logger.Int("found", len(result)),
	)
	return result, sel, nil
}
