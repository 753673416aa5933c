package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogotex/planstore/internal/plan"
	"github.com/gogotex/planstore/internal/plan/repository"
	"github.com/gogotex/planstore/pkg/logger"
	"github.com/gogotex/planstore/pkg/metrics"
	"github.com/rs/zerolog"
)

// Store implements create, read and delete of plan documents over a KV engine.
// Operations on the same key are not serialized: the last write wins and a
// concurrent read sees either version.
type Store struct {
	kv   repository.KV
	gate Gate
	log  zerolog.Logger
}

func NewStore(kv repository.KV, gate Gate) *Store {
	return &Store{kv: kv, gate: gate, log: logger.With("planstore")}
}

// Create persists doc under its objectId, overwriting any previous record. doc
// must already have passed the write pipeline. The returned record is built from
// the bytes read back from the engine.
func (s *Store) Create(ctx context.Context, doc plan.Document) (*plan.Record, error) {
	rec, err := s.create(ctx, doc)
	s.observe("create", err)
	return rec, err
}

func (s *Store) create(ctx context.Context, doc plan.Document) (*plan.Record, error) {
	key, ok := doc.ID()
	if !ok {
		return nil, plan.ErrMissingIdentifier
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	body, err := plan.Canonical(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", plan.ErrMalformedInput, err)
	}
	if err := s.kv.Set(ctx, key, body); err != nil {
		return nil, s.backendErr("set", key, err)
	}
	stored, err := s.kv.Get(ctx, key)
	if err != nil {
		// a concurrent delete between set and get is reported as a backend failure
		return nil, s.backendErr("get after set", key, err)
	}
	rec, err := record(key, stored)
	if err != nil {
		return nil, s.backendErr("decode", key, err)
	}
	s.log.Debug().Str("key", key).Str("etag", rec.ETag).Msg("plan stored")
	return rec, nil
}

// Read returns the record for key. When ifNoneMatch selects the current
// fingerprint, notModified is true and the record carries only Key and ETag.
func (s *Store) Read(ctx context.Context, key, ifNoneMatch string) (rec *plan.Record, notModified bool, err error) {
	rec, notModified, err = s.read(ctx, key, ifNoneMatch)
	switch {
	case err == nil && notModified:
		metrics.PlanOperations.WithLabelValues("read", metrics.OutcomeNotModified).Inc()
	default:
		s.observe("read", err)
	}
	return rec, notModified, err
}

func (s *Store) read(ctx context.Context, key, ifNoneMatch string) (*plan.Record, bool, error) {
	if err := s.ready(); err != nil {
		return nil, false, err
	}
	stored, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, plan.ErrNotFound
		}
		return nil, false, s.backendErr("get", key, err)
	}
	etag := plan.Fingerprint(stored)
	if plan.MatchesIfNoneMatch(ifNoneMatch, etag) {
		return &plan.Record{Key: key, ETag: etag}, true, nil
	}
	rec, err := record(key, stored)
	if err != nil {
		return nil, false, s.backendErr("decode", key, err)
	}
	return rec, false, nil
}

// Delete removes key and returns the number of removed records (always 1 on success).
func (s *Store) Delete(ctx context.Context, key string) (int64, error) {
	n, err := s.delete(ctx, key)
	s.observe("delete", err)
	return n, err
}

func (s *Store) delete(ctx context.Context, key string) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	n, err := s.kv.Del(ctx, key)
	if err != nil {
		return 0, s.backendErr("del", key, err)
	}
	if n == 0 {
		return 0, plan.ErrNotFound
	}
	s.log.Debug().Str("key", key).Msg("plan deleted")
	return n, nil
}

// Ping checks the engine directly, bypassing the gate. When the gate can be
// switched, a failed ping closes it and a successful one reopens it.
func (s *Store) Ping(ctx context.Context) error {
	err := s.kv.Ping(ctx)
	sw, ok := s.gate.(Switch)
	if !ok {
		return err
	}
	if err != nil {
		if s.gate.Ready() == nil {
			s.log.Warn().Err(err).Msg("storage engine unreachable, closing gate")
		}
		sw.MarkUnavailable(err)
		return err
	}
	if s.gate.Ready() != nil {
		s.log.Info().Msg("storage engine reachable, opening gate")
	}
	sw.MarkReady()
	return nil
}

func (s *Store) ready() error {
	if s.gate == nil {
		return nil
	}
	if err := s.gate.Ready(); err != nil {
		return fmt.Errorf("%w: %v", plan.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *Store) backendErr(op, key string, err error) error {
	s.log.Error().Err(err).Str("op", op).Str("key", key).Msg("storage engine failure")
	return fmt.Errorf("%w: %s: %v", plan.ErrBackendUnavailable, op, err)
}

func (s *Store) observe(op string, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, plan.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case plan.IsClientError(err):
		outcome = metrics.OutcomeInvalid
	default:
		outcome = metrics.OutcomeError
	}
	metrics.PlanOperations.WithLabelValues(op, outcome).Inc()
}

func record(key string, stored []byte) (*plan.Record, error) {
	doc, err := plan.Decode(stored)
	if err != nil {
		return nil, err
	}
	return &plan.Record{Key: key, Body: stored, Document: doc, ETag: plan.Fingerprint(stored)}, nil
}
