package checklist

import (
	"context"
	"fmt"
	"net/url"

	"github.com/yegors/airport-readiness/internal/metrics"
	"github.com/yegors/airport-readiness/internal/schema"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// Mode selects how a submission is combined with the stored record
type Mode string

const (
	// ModeReplace builds the record from the submission alone; fields that were
	// not submitted reset to their defaults.
	ModeReplace Mode = "replace"
	// ModeMerge keeps stored values for fields absent from the submission
	ModeMerge Mode = "merge"
)

// ParseMode validates a configured mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReplace, "":
		return ModeReplace, nil
	case ModeMerge:
		return ModeMerge, nil
	default:
		return "", fmt.Errorf("unknown editor mode: %q", s)
	}
}

// Editor turns form submissions into airport records
type Editor struct {
	mode Mode
}

// NewEditor creates an editor with the given mode
func NewEditor(mode Mode) *Editor {
	if mode == "" {
		mode = ModeReplace
	}
	return &Editor{mode: mode}
}

// Mode returns the editor mode
func (e *Editor) Mode() Mode {
	return e.mode
}

// ApplySubmission builds the record for code from the submitted form values.
// Checklist fields are ticked when their key carries a non-empty value and take
// their note from <field>_note. prior is only consulted in merge mode.
// The result always holds exactly the schema fields.
func (e *Editor) ApplySubmission(code string, form url.Values, prior Record) (Record, error) {
	if NormalizeCode(code) == "" {
		return nil, ErrMissingAirportCode
	}

	record := make(Record, schema.FieldCount())
	for _, group := range schema.Groups() {
		for _, field := range group.Fields {
			if e.mode == ModeMerge && !submitted(form, field, group.Scalar()) {
				record[field] = prior.Lookup(field)
				continue
			}

			if group.Scalar() {
				record[field] = TextValue(form.Get(field))
				continue
			}

			tick := 0
			if form.Get(field) != "" {
				tick = 1
			}
			record[field] = PairValue(tick, form.Get(field+schema.NoteSuffix))
		}
	}

	return record, nil
}

func submitted(form url.Values, field string, scalar bool) bool {
	if _, ok := form[field]; ok {
		return true
	}
	if scalar {
		return false
	}
	_, ok := form[field+schema.NoteSuffix]
	return ok
}

// RecordStore is the subset of the record store the editor needs
type RecordStore interface {
	Get(ctx context.Context, code string) (Record, bool, error)
	Put(ctx context.Context, code string, record Record) error
}

// Service applies submissions and writes the resulting records
type Service struct {
	editor  *Editor
	store   RecordStore
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService creates a new checklist service. m may be nil.
func NewService(editor *Editor, store RecordStore, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		editor:  editor,
		store:   store,
		metrics: m,
		logger:  log.Named("checklist"),
	}
}

// Get returns the stored record for an airport code
func (s *Service) Get(ctx context.Context, code string) (Record, bool, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, false, nil
	}
	return s.store.Get(ctx, code)
}

// Save applies a submission for code and replaces the stored record with the result.
// It returns the normalized code and the written record.
func (s *Service) Save(ctx context.Context, code string, form url.Values) (string, Record, error) {
	code = NormalizeCode(code)
	record, changes, err := s.save(ctx, code, form)
	s.metrics.RecordSave(string(s.editor.Mode()), err)
	if err != nil {
		return code, nil, err
	}

	s.logger.WithAirport(code).Info("Airport record saved",
		logger.String("mode", string(s.editor.Mode())),
		logger.Strings("changed", ChangedFields(changes)),
	)
	return code, record, nil
}

func (s *Service) save(ctx context.Context, code string, form url.Values) (Record, []FieldChange, error) {
	if code == "" {
		return nil, nil, ErrMissingAirportCode
	}

	// prior feeds merge mode and the change log; replace mode never copies from it
	prior, _, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load airport record: %w", err)
	}

	record, err := s.editor.ApplySubmission(code, form, prior)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Put(ctx, code, record); err != nil {
		return nil, nil, fmt.Errorf("failed to store airport record: %w", err)
	}
	return record, DetectChanges(prior, record), nil
}
