package templating

// FieldView is one field of a record as rendered in a form or table
type FieldView struct {
	Name   string
	Scalar bool
	Text   string // scalar value
	Ticked bool
	Note   string
}

// GroupView is a schema group with its fields
type GroupView struct {
	Name   string
	Scalar bool
	Fields []FieldView
}

// EditorPage is the context of the input form
type EditorPage struct {
	Airports []string // codes already in the store
	Selected string
	Loaded   bool // the selected airport has a stored record
	Saved    bool
	Error    string
	Groups   []GroupView
}

// AirportResult is one airport of a check result
type AirportResult struct {
	Code   string
	Fields []FieldView
}

// CheckPage is the context of the query view
type CheckPage struct {
	Airports  string   // the raw airport input
	Filters   []string // the selected field names
	Groups    []GroupView
	Results   []AirportResult
	Missing   []string // requested codes without a stored record
	Selection string   // handle for the export form
	Queried   bool
}

// LoginPage is the context of the login form
type LoginPage struct {
	Error string
}
