package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"whoishistory/internal/model"
	"whoishistory/internal/storage"
	"whoishistory/internal/utils"
)

// StateReader is the slice of the store the history page needs. The
// collector owns writes; everything here is a read.
type StateReader interface {
	GetSchemaVersion(ctx context.Context) (int, error)
	GetDomainNames(ctx context.Context) ([]string, error)
	GetDomain(ctx context.Context, name string) (*model.Domain, error)
	GetStates(ctx context.Context, domain string) ([]model.State, error)
	GetState(ctx context.Context, id int64) (*model.State, error)
	GetChanges(ctx context.Context, stateID int64) ([]model.Changed, error)
}

// SchemaVersionError is fatal: the database layout is not one this frontend
// knows how to read, so the whole response aborts.
type SchemaVersionError struct {
	Found int
}

func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("unsupported database schema version %d (expected %d)", e.Found, storage.SchemaVersion)
}

// FieldView is one row of the current-state table, already resolved to its
// rendering: plain text, a bulleted list, or a formatted date (as text).
type FieldView struct {
	Label string
	Kind  model.FieldKind
	Text  string
	Items []string
}

type ChangeView struct {
	Label string
	From  string
	To    string
}

// StateView is one entry on the timeline. Initial marks the oldest state,
// which carries no transition list.
type StateView struct {
	ID        int64
	CheckTime string
	RawText   string
	Initial   bool
	Changes   []ChangeView
}

// DomainHistory is everything the history page shows for one domain.
type DomainHistory struct {
	Name         string
	ActiveChecks bool
	FirstChecked string
	LastChecked  string
	CurrentSince string
	Fields       []FieldView
	CurRawText   string
	States       []StateView
}

// HistoryService composes the store and cache into page view models. Cache
// is optional; when nil or unreachable, everything reads straight from the
// database.
type HistoryService struct {
	Store StateReader
	Cache *storage.Cache
}

func NewHistoryService(store StateReader, cache *storage.Cache) *HistoryService {
	return &HistoryService{Store: store, Cache: cache}
}

// CheckSchemaVersion verifies db_ver before any other query runs. A
// successful probe is cached briefly to spare the database.
func (h *HistoryService) CheckSchemaVersion(ctx context.Context) error {
	if h.Cache != nil {
		if version, err := h.Cache.GetSchemaVersion(ctx); err == nil {
			if version == storage.SchemaVersion {
				return nil
			}
			return &SchemaVersionError{Found: version}
		}
	}

	version, err := h.Store.GetSchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != storage.SchemaVersion {
		return &SchemaVersionError{Found: version}
	}
	if h.Cache != nil {
		if err := h.Cache.SetSchemaVersion(ctx, version); err != nil {
			utils.Log.Warn("failed to cache schema version", utils.Field("error", err.Error()))
		}
	}
	return nil
}

// DomainNames returns the known-domain list for the selector dropdown.
func (h *HistoryService) DomainNames(ctx context.Context) ([]string, error) {
	if h.Cache != nil {
		if names, err := h.Cache.GetDomainNames(ctx); err == nil {
			return names, nil
		}
	}

	names, err := h.Store.GetDomainNames(ctx)
	if err != nil {
		return nil, err
	}
	if h.Cache != nil {
		if err := h.Cache.SetDomainNames(ctx, names); err != nil {
			utils.Log.Warn("failed to cache domain list", utils.Field("error", err.Error()))
		}
	}
	return names, nil
}

// History builds the full page model for one validated domain. Expected
// misses (domain row gone, dangling last_state) become entries in the
// returned page-error list; only unexpected database failures are errors.
func (h *HistoryService) History(ctx context.Context, name string) (*DomainHistory, []string, error) {
	var pageErrors []string

	domain, err := h.Store.GetDomain(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, []string{fmt.Sprintf("%s is not found in our database", name)}, nil
		}
		return nil, nil, err
	}

	states, err := h.Store.GetStates(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	view := &DomainHistory{
		Name:         domain.Domain,
		ActiveChecks: domain.ActiveChecks,
		CurRawText:   domain.CurRawText.ValueOrZero(),
	}
	if len(states) > 0 {
		view.FirstChecked = utils.FormatTime(states[0].CheckTime)
	}
	if domain.LastChecked.Valid {
		view.LastChecked = utils.FormatTime(domain.LastChecked.Time)
	}

	if !domain.LastState.Valid {
		pageErrors = append(pageErrors, fmt.Sprintf("No current state data for %s", name))
	} else {
		current, err := h.Store.GetState(ctx, domain.LastState.Int64)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				pageErrors = append(pageErrors, fmt.Sprintf("Current state for %s was not found", name))
			} else {
				return nil, nil, err
			}
		} else {
			view.CurrentSince = utils.FormatTime(current.CheckTime)
			view.Fields = renderFields(current)
		}
	}

	for i := range states {
		sv := StateView{
			ID:        states[i].ID,
			CheckTime: utils.FormatTime(states[i].CheckTime),
			RawText:   states[i].RawText.ValueOrZero(),
			Initial:   i == 0,
		}
		if i > 0 {
			changes, err := h.Store.GetChanges(ctx, states[i].ID)
			if err != nil {
				return nil, nil, err
			}
			for _, ch := range changes {
				sv.Changes = append(sv.Changes, ChangeView{
					Label: ch.Info,
					From:  ch.ValFrom.ValueOrZero(),
					To:    ch.ValTo.ValueOrZero(),
				})
			}
		}
		view.States = append(view.States, sv)
	}

	return view, pageErrors, nil
}

// renderFields resolves every datapoint of a state to its display form. A
// list-kind value only becomes a bulleted list when it actually holds more
// than one item.
func renderFields(state *model.State) []FieldView {
	fields := make([]FieldView, 0, len(model.Datapoints))
	for _, dp := range model.Datapoints {
		fv := FieldView{Label: dp.Label, Kind: dp.Kind}
		switch dp.Kind {
		case model.KindDate:
			if t := state.DateField(dp.Key); t.Valid {
				fv.Text = utils.FormatTime(t.Time)
			}
		case model.KindList:
			items := model.SplitList(state.StringField(dp.Key).ValueOrZero())
			if len(items) > 1 {
				fv.Items = items
			} else if len(items) == 1 {
				fv.Kind = model.KindString
				fv.Text = items[0]
			} else {
				fv.Kind = model.KindString
			}
		default:
			fv.Text = state.StringField(dp.Key).ValueOrZero()
		}
		fields = append(fields, fv)
	}
	return fields
}
