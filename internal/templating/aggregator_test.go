package templating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/internal/query"
	"github.com/yegors/airport-readiness/pkg/logger"
)

type codeList []string

func (c codeList) ListCodes(context.Context) ([]string, error) { return c, nil }

func TestEditorContext_Prefill(t *testing.T) {
	da := NewDataAggregator(codeList{"HAN", "SGN"}, logger.Nop())
	rec := checklist.Record{
		"ILS":          checklist.PairValue(1, "cat3 ok"),
		"AIRPORT_NAME": checklist.TextValue("Noi Bai"),
	}

	page, err := da.EditorContext(context.Background(), "HAN", rec, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"HAN", "SGN"}, page.Airports)
	assert.True(t, page.Loaded)
	require.Len(t, page.Groups, 5)

	fields := map[string]FieldView{}
	for _, g := range page.Groups {
		for _, f := range g.Fields {
			fields[f.Name] = f
		}
	}
	assert.Len(t, fields, 33)
	assert.Equal(t, FieldView{Name: "ILS", Ticked: true, Note: "cat3 ok"}, fields["ILS"])
	assert.Equal(t, FieldView{Name: "VOR"}, fields["VOR"])
	assert.Equal(t, FieldView{Name: "AIRPORT_NAME", Scalar: true, Text: "Noi Bai"}, fields["AIRPORT_NAME"])
}

func TestCheckContext(t *testing.T) {
	da := NewDataAggregator(codeList{}, logger.Nop())
	sel := query.Selection{Codes: []string{"SGN", "HAN", "SGN", ""}, Fields: []string{"ILS", "FUEL"}}
	result := query.Result{
		"HAN": {Check: map[string]checklist.Value{
			"ILS":  checklist.PairValue(1, "ok"),
			"FUEL": checklist.TextValue("JET A1"),
		}},
	}

	page := da.CheckContext("SGN, HAN", sel, result, "handle-1")

	assert.True(t, page.Queried)
	assert.Equal(t, "handle-1", page.Selection)
	assert.Equal(t, []string{"SGN"}, page.Missing)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "HAN", page.Results[0].Code)
	assert.Equal(t, []FieldView{
		{Name: "ILS", Ticked: true, Note: "ok"},
		{Name: "FUEL", Scalar: true, Text: "JET A1"},
	}, page.Results[0].Fields)
}

func TestCheckContext_BeforeQuery(t *testing.T) {
	page := NewDataAggregator(codeList{}, logger.Nop()).CheckContext("", query.Selection{}, nil, "")
	assert.False(t, page.Queried)
	assert.Len(t, page.Groups, 5)
}
