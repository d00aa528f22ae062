// Package templating builds the contexts rendered by the HTML pages
package templating

import (
	"context"
	"fmt"

	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/internal/query"
	"github.com/yegors/airport-readiness/internal/schema"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// CodeLister lists the stored airport codes
type CodeLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// DataAggregator collects store data into page contexts
type DataAggregator struct {
	store  CodeLister
	logger *logger.Logger
}

// NewDataAggregator creates a new data aggregator
func NewDataAggregator(store CodeLister, log *logger.Logger) *DataAggregator {
	return &DataAggregator{
		store:  store,
		logger: log.Named("template-aggregator"),
	}
}

// EditorContext builds the input form for code, prefilled from record when loaded is true
func (da *DataAggregator) EditorContext(ctx context.Context, code string, record checklist.Record, loaded bool) (*EditorPage, error) {
	codes, err := da.store.ListCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list airports: %w", err)
	}

	page := &EditorPage{
		Airports: codes,
		Selected: code,
		Loaded:   loaded,
	}
	for _, g := range schema.Groups() {
		gv := GroupView{Name: g.Name, Scalar: g.Scalar()}
		for _, f := range g.Fields {
			gv.Fields = append(gv.Fields, fieldView(f, record.Lookup(f)))
		}
		page.Groups = append(page.Groups, gv)
	}
	return page, nil
}

// CheckContext builds the query view. result may be nil before the first query.
func (da *DataAggregator) CheckContext(airports string, sel query.Selection, result query.Result, handle string) *CheckPage {
	page := &CheckPage{
		Airports:  airports,
		Groups:    filterGroups(),
		Selection: handle,
		Queried:   result != nil,
	}
	if result == nil {
		return page
	}

	page.Filters = sel.Fields
	for _, code := range result.Codes(sel) {
		ar := AirportResult{Code: code}
		check := result[code].Check
		for _, f := range sel.Fields {
			ar.Fields = append(ar.Fields, fieldView(f, check[f]))
		}
		page.Results = append(page.Results, ar)
	}

	seen := map[string]bool{}
	for _, code := range sel.Codes {
		if _, ok := result[code]; ok || code == "" || seen[code] {
			continue
		}
		seen[code] = true
		page.Missing = append(page.Missing, code)
	}

	da.logger.Debug("Check page built",
		logger.Int("results", len(page.Results)),
		logger.Int("missing", len(page.Missing)),
	)
	return page
}

// filterGroups lists the schema as empty field views for the filter checkboxes
func filterGroups() []GroupView {
	var groups []GroupView
	for _, g := range schema.Groups() {
		gv := GroupView{Name: g.Name, Scalar: g.Scalar()}
		for _, f := range g.Fields {
			gv.Fields = append(gv.Fields, FieldView{Name: f, Scalar: g.Scalar()})
		}
		groups = append(groups, gv)
	}
	return groups
}

func fieldView(field string, v checklist.Value) FieldView {
	fv := FieldView{Name: field, Scalar: schema.IsScalarField(field)}
	if fv.Scalar {
		if s, ok := v.Text(); ok {
			fv.Text = s
		} else if !v.IsZero() {
			fv.Text = v.String()
		}
		return fv
	}
	_, fv.Note, _ = v.Pair()
	fv.Ticked = v.Ticked()
	return fv
}
