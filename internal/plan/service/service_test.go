package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gogotex/planstore/internal/plan"
	"github.com/gogotex/planstore/internal/plan/repository"
	"github.com/gogotex/planstore/internal/plan/schema"
	"github.com/gogotex/planstore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// failingKV simulates an unreachable engine.
type failingKV struct{ err error }

func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Del(context.Context, string) (int64, error)  { return 0, f.err }
func (f failingKV) Ping(context.Context) error                  { return f.err }

// rewritingKV stores a different representation than it was given.
type rewritingKV struct{ *repository.MemoryKV }

func (r rewritingKV) Set(ctx context.Context, key string, _ []byte) error {
	return r.MemoryKV.Set(ctx, key, []byte(`{"objectId":"`+key+`","plan":"rewritten"}`))
}

func newStore(t *testing.T, kv repository.KV) *Store {
	t.Helper()
	gate := NewReadiness()
	gate.MarkReady()
	return NewStore(kv, gate)
}

func validDoc(t *testing.T, body string) plan.Document {
	t.Helper()
	s, err := schema.NewPlanSchema()
	require.NoError(t, err)
	doc, err := plan.WritePipeline(s).Process([]byte(body))
	require.NoError(t, err)
	return doc
}

func TestStore_CreateThenRead(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, repository.NewMemoryKV())

	created, err := st.Create(ctx, validDoc(t, `{"objectId":"abc123","creationDate":"25-12-2023","plan":"gold"}`))
	require.NoError(t, err)
	require.Equal(t, "abc123", created.Key)
	require.Equal(t, `{"creationDate":"2023-12-25","objectId":"abc123","plan":"gold"}`, string(created.Body))
	require.Equal(t, plan.Fingerprint(created.Body), created.ETag)
	require.Equal(t, "2023-12-25", created.Document["creationDate"])

	got, notModified, err := st.Read(ctx, "abc123", "")
	require.NoError(t, err)
	require.False(t, notModified)
	require.Equal(t, created.ETag, got.ETag)
	require.Equal(t, created.Body, got.Body)
	require.Equal(t, created.Document, got.Document)

	again, _, err := st.Read(ctx, "abc123", "")
	require.NoError(t, err)
	require.Equal(t, got.ETag, again.ETag)
}

func TestStore_ConditionalRead(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, repository.NewMemoryKV())
	created, err := st.Create(ctx, validDoc(t, `{"objectId":"k","plan":"gold"}`))
	require.NoError(t, err)

	before := testutil.ToFloat64(metrics.PlanOperations.WithLabelValues("read", metrics.OutcomeNotModified))
	rec, notModified, err := st.Read(ctx, "k", created.ETag)
	require.NoError(t, err)
	require.True(t, notModified)
	require.Equal(t, created.ETag, rec.ETag)
	require.Nil(t, rec.Body)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.PlanOperations.WithLabelValues("read", metrics.OutcomeNotModified)))

	for _, tok := range []string{`"stale"`, "W/" + created.ETag, "garbage", "*", `"stale", ` + created.ETag} {
		rec, notModified, err = st.Read(ctx, "k", tok)
		require.NoError(t, err)
		require.False(t, notModified, tok)
		require.Equal(t, created.Body, rec.Body)
	}
}

func TestStore_OverwriteReplaces(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, repository.NewMemoryKV())

	first, err := st.Create(ctx, validDoc(t, `{"objectId":"k","plan":"gold","planType":"inNetwork"}`))
	require.NoError(t, err)
	second, err := st.Create(ctx, validDoc(t, `{"objectId":"k","plan":"silver"}`))
	require.NoError(t, err)
	require.NotEqual(t, first.ETag, second.ETag)

	got, _, err := st.Read(ctx, "k", first.ETag)
	require.NoError(t, err)
	require.Equal(t, "silver", got.Document["plan"])
	_, merged := got.Document["planType"]
	require.False(t, merged)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, repository.NewMemoryKV())
	_, err := st.Create(ctx, validDoc(t, `{"objectId":"k","plan":"gold"}`))
	require.NoError(t, err)

	n, err := st.Delete(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, _, err = st.Read(ctx, "k", "")
	require.ErrorIs(t, err, plan.ErrNotFound)

	n, err = st.Delete(ctx, "k")
	require.ErrorIs(t, err, plan.ErrNotFound)
	require.Equal(t, int64(0), n)
}

func TestStore_ReadMissing(t *testing.T) {
	_, _, err := newStore(t, repository.NewMemoryKV()).Read(context.Background(), "nope", "*")
	require.ErrorIs(t, err, plan.ErrNotFound)
}

func TestStore_CreateRequiresIdentifier(t *testing.T) {
	kv := repository.NewMemoryKV()
	_, err := newStore(t, kv).Create(context.Background(), plan.Document{"plan": "gold"})
	require.ErrorIs(t, err, plan.ErrMissingIdentifier)
	_, err = kv.Get(context.Background(), "")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_FingerprintsStoredBytes(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, rewritingKV{repository.NewMemoryKV()})

	rec, err := st.Create(ctx, validDoc(t, `{"objectId":"k","plan":"gold"}`))
	require.NoError(t, err)
	require.Equal(t, "rewritten", rec.Document["plan"])
	require.Equal(t, plan.Fingerprint([]byte(`{"objectId":"k","plan":"rewritten"}`)), rec.ETag)
}

func TestStore_BackendFailures(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, failingKV{err: errors.New("dial tcp: connection refused")})

	_, err := st.Create(ctx, plan.Document{"objectId": "k", "plan": "gold"})
	require.ErrorIs(t, err, plan.ErrBackendUnavailable)
	_, _, err = st.Read(ctx, "k", "")
	require.ErrorIs(t, err, plan.ErrBackendUnavailable)
	_, err = st.Delete(ctx, "k")
	require.ErrorIs(t, err, plan.ErrBackendUnavailable)
	require.False(t, plan.IsClientError(err))
}

func TestStore_ClosedGateFailsFast(t *testing.T) {
	kv := repository.NewMemoryKV()
	gate := NewReadiness()
	st := NewStore(kv, gate)

	_, err := st.Create(context.Background(), plan.Document{"objectId": "k", "plan": "gold"})
	require.ErrorIs(t, err, plan.ErrBackendUnavailable)
	_, err = kv.Get(context.Background(), "k")
	require.ErrorIs(t, err, repository.ErrNotFound, "nothing is written while the gate is closed")

	gate.MarkReady()
	_, err = st.Create(context.Background(), plan.Document{"objectId": "k", "plan": "gold"})
	require.NoError(t, err)

	gate.MarkUnavailable(errors.New("lost connection"))
	_, _, err = st.Read(context.Background(), "k", "")
	require.ErrorIs(t, err, plan.ErrBackendUnavailable)
	require.Contains(t, err.Error(), "lost connection")
}

// toggleKV is a memory engine whose ping result can be switched.
type toggleKV struct {
	*repository.MemoryKV
	pingErr error
}

func (k *toggleKV) Ping(context.Context) error { return k.pingErr }

func TestStore_PingDrivesGate(t *testing.T) {
	ctx := context.Background()
	kv := &toggleKV{MemoryKV: repository.NewMemoryKV()}
	gate := NewReadiness()
	st := NewStore(kv, gate)

	require.NoError(t, st.Ping(ctx))
	require.NoError(t, gate.Ready())
	_, err := st.Create(ctx, plan.Document{"objectId": "k", "plan": "gold"})
	require.NoError(t, err)

	kv.pingErr = errors.New("connection refused")
	require.Error(t, st.Ping(ctx))
	require.ErrorContains(t, gate.Ready(), "connection refused")
	_, _, err = st.Read(ctx, "k", "")
	require.ErrorIs(t, err, plan.ErrBackendUnavailable)

	kv.pingErr = nil
	require.NoError(t, st.Ping(ctx))
	rec, _, err := st.Read(ctx, "k", "")
	require.NoError(t, err)
	require.Equal(t, "k", rec.Key)
}

// staticGate cannot be switched, so Ping leaves it alone.
type staticGate struct{}

func (staticGate) Ready() error { return nil }

func TestStore_PingWithFixedGate(t *testing.T) {
	kv := &toggleKV{MemoryKV: repository.NewMemoryKV(), pingErr: errors.New("down")}
	st := NewStore(kv, staticGate{})
	require.Error(t, st.Ping(context.Background()))
	_, err := st.Create(context.Background(), plan.Document{"objectId": "k", "plan": "gold"})
	require.NoError(t, err)
}

func TestStore_ConcurrentKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, repository.NewMemoryKV())

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "k-" + string(rune('a'+i))
			if _, err := st.Create(ctx, plan.Document{"objectId": id, "plan": "gold"}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for i := 0; i < 20; i++ {
		rec, _, err := st.Read(ctx, "k-"+string(rune('a'+i)), "")
		require.NoError(t, err)
		require.Equal(t, "gold", rec.Document["plan"])
	}
}
