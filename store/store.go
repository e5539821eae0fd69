package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/snapshot"
)

const snapshotsKey = "weekly_snapshots"

func tradesKey(datasetID string) string {
	return datasetID + "_trades"
}

// Store owns the shared trade ledger and snapshot documents. No other
// component writes them. Callers serialize their own writes per dataset;
// cross-process races are resolved by the CAS protocol alone.
type Store struct {
	client DocumentClient
	log    *zap.Logger
}

func New(client DocumentClient, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, log: log}
}

// LoadTrades returns the persisted ledger for one dataset. A document that
// has never been written reads as an empty ledger; that is logged apart from
// a genuinely empty one so a missing-permissions surprise is visible.
func (s *Store) LoadTrades(ctx context.Context, datasetID string) ([]roundtrip.Trade, error) {
	records, _, err := s.loadRecords(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	trades := make([]roundtrip.Trade, 0, len(records))
	for _, rec := range records {
		trades = append(trades, rec.ToTrade())
	}
	return trades, nil
}

func (s *Store) loadRecords(ctx context.Context, datasetID string) ([]TradeRecord, string, error) {
	data, version, err := s.client.Get(ctx, tradesKey(datasetID))
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("ledger document missing, treating as empty dataset",
			zap.String("dataset", datasetID))
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load ledger %s: %w", datasetID, err)
	}

	var records []TradeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, "", fmt.Errorf("decode ledger %s: %w", datasetID, err)
	}
	return records, version, nil
}

// SaveTrades merges newTrades into the persisted ledger, skipping every
// trade whose dedup key is already present, and writes the merged document
// conditionally. On a version conflict the read-merge-write cycle runs once
// more against fresh state; a second conflict surfaces as ErrWriteConflict.
// Returns the number of trades actually appended.
//
// Calling SaveTrades twice with the same batch is a no-op the second time:
// the merge is idempotent by construction.
func (s *Store) SaveTrades(ctx context.Context, datasetID string, newTrades []roundtrip.Trade, batchID string) (int, error) {
	added, err := s.mergeAndPut(ctx, datasetID, newTrades, batchID)
	if errors.Is(err, ErrVersionConflict) {
		s.log.Info("ledger write conflict, retrying against fresh state",
			zap.String("dataset", datasetID))
		added, err = s.mergeAndPut(ctx, datasetID, newTrades, batchID)
		if errors.Is(err, ErrVersionConflict) {
			return 0, fmt.Errorf("save ledger %s: %w", datasetID, ErrWriteConflict)
		}
	}
	return added, err
}

func (s *Store) mergeAndPut(ctx context.Context, datasetID string, newTrades []roundtrip.Trade, batchID string) (int, error) {
	existing, version, err := s.loadRecords(ctx, datasetID)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[rec.ToTrade().DedupKey()] = struct{}{}
	}

	merged := existing
	added := 0
	for _, t := range newTrades {
		key := t.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		t.BatchID = batchID
		merged = append(merged, FromTrade(t))
		added++
	}

	if added == 0 && version != "" {
		return 0, nil // nothing new, keep the current document
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return 0, fmt.Errorf("encode ledger %s: %w", datasetID, err)
	}
	if _, err := s.client.Put(ctx, tradesKey(datasetID), data, version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return 0, ErrVersionConflict
		}
		return 0, fmt.Errorf("save ledger %s: %w", datasetID, err)
	}

	s.log.Info("ledger saved",
		zap.String("dataset", datasetID),
		zap.String("batch", batchID),
		zap.Int("added", added),
		zap.Int("total", len(merged)))
	return added, nil
}

// LoadSnapshots returns one strategy's weekly series, sorted by week.
func (s *Store) LoadSnapshots(ctx context.Context, strategy string) ([]snapshot.Snapshot, error) {
	all, _, err := s.loadSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	var out []snapshot.Snapshot
	for _, snap := range all {
		if snap.Strategy == strategy {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekKey < out[j].WeekKey })
	return out, nil
}

func (s *Store) loadSnapshots(ctx context.Context) ([]snapshot.Snapshot, string, error) {
	data, version, err := s.client.Get(ctx, snapshotsKey)
	if errors.Is(err, ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load snapshots: %w", err)
	}
	var all []snapshot.Snapshot
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, "", fmt.Errorf("decode snapshots: %w", err)
	}
	return all, version, nil
}

// SaveAllSnapshots replaces one strategy's entire weekly series in a single
// write, leaving every other strategy's records untouched. Snapshots are
// always regenerated wholesale, so last-writer-wins per strategy is correct
// and no per-record dedup is needed. Same bounded CAS retry as the ledger.
func (s *Store) SaveAllSnapshots(ctx context.Context, strategy string, snaps []snapshot.Snapshot) error {
	err := s.replaceSnapshots(ctx, strategy, snaps)
	if errors.Is(err, ErrVersionConflict) {
		s.log.Info("snapshot write conflict, retrying against fresh state",
			zap.String("strategy", strategy))
		err = s.replaceSnapshots(ctx, strategy, snaps)
		if errors.Is(err, ErrVersionConflict) {
			return fmt.Errorf("save snapshots %s: %w", strategy, ErrWriteConflict)
		}
	}
	return err
}

func (s *Store) replaceSnapshots(ctx context.Context, strategy string, snaps []snapshot.Snapshot) error {
	all, version, err := s.loadSnapshots(ctx)
	if err != nil {
		return err
	}

	merged := make([]snapshot.Snapshot, 0, len(all)+len(snaps))
	for _, snap := range all {
		if snap.Strategy != strategy {
			merged = append(merged, snap)
		}
	}
	merged = append(merged, snaps...)

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	if _, err := s.client.Put(ctx, snapshotsKey, data, version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return ErrVersionConflict
		}
		return fmt.Errorf("save snapshots %s: %w", strategy, err)
	}

	s.log.Info("snapshots saved",
		zap.String("strategy", strategy),
		zap.Int("weeks", len(snaps)),
		zap.Int("total", len(merged)))
	return nil
}
