package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bakeops/ovenboard/pkg/adapters"
	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/bakeops/ovenboard/pkg/models/domain"
	"github.com/bakeops/ovenboard/pkg/models/store"
	"github.com/bakeops/ovenboard/pkg/services/forecast"
	"github.com/bakeops/ovenboard/pkg/services/inventory"
	"github.com/bakeops/ovenboard/pkg/services/view"
	"github.com/bakeops/ovenboard/pkg/store/client"
	"github.com/bakeops/ovenboard/pkg/store/duckdb/snapshot"
	"github.com/rs/zerolog"
)

// Params are the view parameters shared by every position in a session.
type Params struct {
	LookbackDays int
	LeadTimeDays int
}

type Dependencies struct {
	Client    client.Bakehouse
	Snapshots snapshot.Store // optional; nil disables the offline cache
	Clock     func() time.Time
}

// Session owns the console's only mutable state: the last good fetch, the
// active filter/sort of each view, expansion, and per-row edit state.
// Every rendered view is recomputed from that state, never cached.
//
// Refreshes race: a parameter change fires a new fetch without cancelling
// the old one. Each refresh takes an increasing sequence number before the
// network call and is discarded at apply time if a newer one already landed,
// so a slow stale response can never overwrite fresher data.
type Session struct {
	deps   Dependencies
	params Params

	invSeq atomic.Uint64
	fcSeq  atomic.Uint64

	mu         sync.Mutex
	invApplied uint64
	fcApplied  uint64

	positions  []domain.AssessedPosition
	invSkipped int
	stale      bool

	summaries *forecast.SummarySet
	fcSkipped int
	fcCached  bool

	invFilter string
	invSort   view.SortState
	fcFilter  string
	fcSort    view.SortState

	expansion *view.ExpansionState
	editor    *inventory.Editor
}

func NewSession(deps Dependencies, params Params) (*Session, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("bakehouse client is required")
	}
	if params.LeadTimeDays <= 0 {
		return nil, fmt.Errorf("lead time must be positive, got %d", params.LeadTimeDays)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Session{
		deps:      deps,
		params:    params,
		summaries: forecast.Aggregate(nil),
		expansion: view.NewExpansionState(),
		editor:    inventory.NewEditor(),
	}, nil
}

// RefreshInventory fetches current positions and replaces the inventory
// state unless a newer refresh has already been applied. On a transport
// failure with nothing yet in memory it falls back to the last persisted
// snapshot, marking the view stale.
func (s *Session) RefreshInventory(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	seq := s.invSeq.Add(1)

	raws, err := s.deps.Client.GetInventory(ctx, s.params.LookbackDays, s.params.LeadTimeDays)
	if err != nil {
		var transportErr *client.TransportError
		if errors.As(err, &transportErr) {
			s.restoreSnapshot(ctx)
		}
		return err
	}

	positions, skipped := adapters.NormalizeInventoryRecords(raws)
	if skipped > 0 {
		logger.Warn().Int("skipped", skipped).Msg("skipped malformed inventory records")
	}
	assessed := inventory.ClassifyAll(positions, s.params.LeadTimeDays)

	s.mu.Lock()
	if seq < s.invApplied {
		s.mu.Unlock()
		logger.Debug().Uint64("seq", seq).Uint64("applied", s.invApplied).
			Msg("discarding superseded inventory refresh")
		return nil
	}
	s.invApplied = seq
	s.positions = assessed
	s.invSkipped = skipped
	s.stale = false
	s.mu.Unlock()

	s.persistSnapshot(ctx, positions)
	return nil
}

// RefreshForecast asks the bakehouse to generate a forecast and replaces the
// forecast state, with the same supersede rule as RefreshInventory.
func (s *Session) RefreshForecast(ctx context.Context, req api.ForecastRequest) error {
	logger := zerolog.Ctx(ctx)
	seq := s.fcSeq.Add(1)

	resp, err := s.deps.Client.GenerateForecast(ctx, req)
	if err != nil {
		return err
	}

	records, skipped := adapters.NormalizeForecastRecords(resp.DailyForecast)
	if skipped > 0 {
		logger.Warn().Int("skipped", skipped).Msg("skipped malformed forecast records")
	}
	summaries := forecast.Aggregate(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.fcApplied {
		logger.Debug().Uint64("seq", seq).Uint64("applied", s.fcApplied).
			Msg("discarding superseded forecast refresh")
		return nil
	}
	s.fcApplied = seq
	s.summaries = summaries
	s.fcSkipped = skipped
	s.fcCached = resp.Cached
	return nil
}

// SetInventoryFilter replaces the inventory filter text.
func (s *Session) SetInventoryFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invFilter = text
}

// ToggleInventorySort applies a column-header click to the inventory sort.
func (s *Session) ToggleInventorySort(key string) view.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invSort = s.invSort.Toggle(key)
	return s.invSort
}

func (s *Session) SetForecastFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fcFilter = text
}

func (s *Session) ToggleForecastSort(key string) view.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fcSort = s.fcSort.Toggle(key)
	return s.fcSort
}

// ToggleExpand flips a product group's expansion and reports the new state.
// Expansion is keyed by product, so it survives filter and sort changes.
func (s *Session) ToggleExpand(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expansion.Toggle(key)
}

// InventoryView renders the inventory rows under the current filter/sort.
func (s *Session) InventoryView() api.InventoryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := inventorySchema.View(s.positions, s.invFilter, s.invSort)
	result := api.InventoryView{
		Rows:           make([]api.InventoryRow, 0, len(rows)),
		SkippedRecords: s.invSkipped,
		Stale:          s.stale,
		LeadTimeDays:   s.params.LeadTimeDays,
	}
	for _, row := range rows {
		result.Rows = append(result.Rows, adapters.MapAssessedPositionToRow(row))
	}
	return result
}

// ForecastView renders the product summaries under the current filter/sort,
// attaching chronologically ordered members to expanded groups.
func (s *Session) ForecastView() api.ForecastView {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := forecastSchema.View(s.summaries.Summaries(), s.fcFilter, s.fcSort)
	result := api.ForecastView{
		Rows:           make([]api.ForecastRow, 0, len(rows)),
		SkippedRecords: s.fcSkipped,
		Cached:         s.fcCached,
	}
	for _, summary := range rows {
		var members []domain.CanonicalRecord
		if s.expansion.IsExpanded(summary.ProductKey) {
			members = view.ChronologicalMembers(summary)
		}
		result.Rows = append(result.Rows, adapters.MapSummaryToForecastRow(summary, members))
	}
	return result
}

// SubmitEdit validates and persists one position edit. The in-memory
// position only changes after the bakehouse confirms the save; a failed save
// keeps the draft so the operator can retry.
func (s *Session) SubmitEdit(ctx context.Context, key string, edit api.PositionEdit) error {
	if edit.CurrentQuantity == nil && edit.RestockThreshold == nil {
		return fmt.Errorf("edit for %q changes nothing", key)
	}
	if edit.CurrentQuantity != nil && *edit.CurrentQuantity < 0 {
		return fmt.Errorf("quantity must be a non-negative integer")
	}
	if edit.RestockThreshold != nil && *edit.RestockThreshold < 0 {
		return fmt.Errorf("restock threshold must be a non-negative integer")
	}

	s.mu.Lock()
	if !s.hasPosition(key) {
		s.mu.Unlock()
		return fmt.Errorf("unknown product %q", key)
	}
	if err := s.editor.Begin(key); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.editor.SetDraft(key, edit); err != nil {
		s.mu.Unlock()
		return err
	}
	draft, err := s.editor.MarkSaving(key)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	updated, err := s.deps.Client.UpdatePosition(ctx, key, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if failErr := s.editor.Fail(key, err.Error()); failErr != nil {
			zerolog.Ctx(ctx).Error().Err(failErr).Str("product", key).
				Msg("edit state out of sync after failed save")
		}
		return err
	}

	if markErr := s.editor.Complete(key); markErr != nil {
		zerolog.Ctx(ctx).Error().Err(markErr).Str("product", key).
			Msg("edit state out of sync after confirmed save")
	}
	s.applyConfirmedEdit(ctx, key, updated)
	return nil
}

// EditPhase exposes a row's edit state for rendering.
func (s *Session) EditPhase(key string) inventory.EditPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Phase(key)
}

// Health reports bakehouse connectivity.
func (s *Session) Health(ctx context.Context) (*api.HealthStatus, error) {
	return s.deps.Client.Health(ctx)
}

func (s *Session) hasPosition(key string) bool {
	for _, p := range s.positions {
		if p.Position.ProductKey == key {
			return true
		}
	}
	return false
}

func (s *Session) applyConfirmedEdit(ctx context.Context, key string, updated *api.RawInventoryRecord) {
	if updated == nil {
		return
	}
	pos, err := adapters.MapRawInventoryRecordToDomain(*updated)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("product", key).
			Msg("bakehouse confirmed a save with a malformed record, keeping previous row")
		return
	}
	for i := range s.positions {
		if s.positions[i].Position.ProductKey == key {
			s.positions[i] = domain.AssessedPosition{
				Position:   pos,
				Assessment: inventory.Classify(pos, s.params.LeadTimeDays),
			}
			return
		}
	}
}

// restoreSnapshot loads the persisted inventory when there is nothing in
// memory, so a cold start with the bakehouse down still renders a view.
func (s *Session) restoreSnapshot(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	s.mu.Lock()
	empty := len(s.positions) == 0
	s.mu.Unlock()
	if !empty || s.deps.Snapshots == nil {
		return
	}

	snapshots, err := s.deps.Snapshots.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load inventory snapshot")
		return
	}
	if len(snapshots) == 0 {
		return
	}

	positions := make([]domain.InventoryPosition, 0, len(snapshots))
	for _, snap := range snapshots {
		positions = append(positions, adapters.MapSnapshotToPosition(snap))
	}
	assessed := inventory.ClassifyAll(positions, s.params.LeadTimeDays)

	s.mu.Lock()
	if len(s.positions) == 0 {
		s.positions = assessed
		s.invSkipped = 0
		s.stale = true
	}
	s.mu.Unlock()
	logger.Info().Int("positions", len(snapshots)).Msg("restored inventory from snapshot")
}

func (s *Session) persistSnapshot(ctx context.Context, positions []domain.InventoryPosition) {
	if s.deps.Snapshots == nil {
		return
	}
	capturedAt := s.deps.Clock()
	snapshots := make([]store.InventorySnapshot, 0, len(positions))
	for _, pos := range positions {
		snapshots = append(snapshots, adapters.MapPositionToSnapshot(pos, capturedAt))
	}
	if err := s.deps.Snapshots.Save(ctx, snapshots); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to persist inventory snapshot")
	}
}
