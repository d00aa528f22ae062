// Package schema defines the fixed catalog of checklist groups and the fields
// every airport record may contain.
package schema

// Group names
const (
	GroupDocument           = "DOCUMENT"
	GroupNavigationTerrain  = "NAVIGATION_TERRAIN_DATA"
	GroupAMM                = "AMM"
	GroupProcedures         = "PROCEDURES"
	GroupAirportInformation = "AIRPORT_INFORMATION"
)

// NoteSuffix is appended to a checklist field name to form its note input
const NoteSuffix = "_note"

// Group is a named, ordered list of field identifiers
type Group struct {
	Name   string
	Fields []string
}

// Scalar reports whether the group holds free-text values instead of tick/note pairs
func (g Group) Scalar() bool {
	return IsScalarGroup(g.Name)
}

var groups = []Group{
	{Name: GroupDocument, Fields: []string{
		"LIDO_mPilot",
		"EFB2",
		"EFB3",
		"EOSID_CHART",
		"EDTO_MANUAL",
		"ROUTE_MANUAL",
		"RTOW",
	}},
	{Name: GroupNavigationTerrain, Fields: []string{
		"VN4",
		"VN6",
		"VN7",
		"VN9",
		"HVN2",
		"TERRAIN",
		"EOSID_NAV",
	}},
	{Name: GroupAMM, Fields: []string{
		"AMM_EFB2",
		"AMM_EFB3",
		"AMM_AVIONIC",
		"AMM_mPILOT",
	}},
	{Name: GroupProcedures, Fields: []string{
		"TAKE_OFF_LVP",
		"RNAV_SID_STAR",
		"ILS",
		"VOR",
		"RNP",
		"NDB",
		"EOSID_PROCEDURES",
	}},
	{Name: GroupAirportInformation, Fields: []string{
		"AIRPORT_NAME",
		"CITY_NAME",
		"COUNTRY_NAME",
		"RUNWAY_LENGTH",
		"PCN_PCR",
		"RFFS_CAT",
		"FUEL",
		"OPERATING_HOUR",
	}},
}

// fieldGroup maps each field to the name of its group
var fieldGroup = func() map[string]string {
	m := make(map[string]string)
	for _, g := range groups {
		for _, f := range g.Fields {
			m[f] = g.Name
		}
	}
	return m
}()

// Groups returns the ordered groups. The returned slice is a copy.
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Name: g.Name, Fields: append([]string(nil), g.Fields...)}
	}
	return out
}

// IsScalarGroup is true only for AIRPORT_INFORMATION
func IsScalarGroup(name string) bool {
	return name == GroupAirportInformation
}

// AllFields returns every field identifier in schema order
func AllFields() []string {
	fields := make([]string, 0, len(fieldGroup))
	for _, g := range groups {
		fields = append(fields, g.Fields...)
	}
	return fields
}

// GroupOf returns the group a field belongs to
func GroupOf(field string) (string, bool) {
	g, ok := fieldGroup[field]
	return g, ok
}

// IsScalarField reports whether the field belongs to the scalar group.
// Unknown fields are treated as checklist fields.
func IsScalarField(field string) bool {
	g, ok := fieldGroup[field]
	return ok && IsScalarGroup(g)
}

// Has reports whether the field is part of the schema
func Has(field string) bool {
	_, ok := fieldGroup[field]
	return ok
}

// FieldCount returns the total number of fields across all groups
func FieldCount() int {
	return len(fieldGroup)
}
