package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
)

type fakeKV struct {
	mu     sync.Mutex
	values map[string]string
	ttl    time.Duration
	getErr error
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func sampleRecord() *interaction.Record {
	rec := interaction.NewRecord()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec.Views["p1"] = []time.Time{at}
	rec.Ratings["p1"] = interaction.RatingEntry{Rating: 4, Timestamp: at}
	rec.CategoryPreferences["DeFi"] = 2
	rec.TimeSpent["p1"] = 1500
	rec.Searches = append(rec.Searches, interaction.SearchEntry{Query: "wallet", Timestamp: at})
	return rec
}

func behavesAsPersistence(store interaction.Persistence) {
	ctx := context.Background()

	Convey("Load before any save reports not found", func() {
		_, err := store.Load(ctx)
		So(errors.Is(err, interaction.ErrNotFound), ShouldBeTrue)
	})

	Convey("Saved records load back", func() {
		So(store.Save(ctx, sampleRecord()), ShouldBeNil)
		got, err := store.Load(ctx)
		So(err, ShouldBeNil)
		So(got.Ratings["p1"].Rating, ShouldEqual, 4)
		So(got.CategoryPreferences["DeFi"], ShouldEqual, 2)
		So(got.TimeSpent["p1"], ShouldEqual, 1500)
		So(got.Searches, ShouldHaveLength, 1)
		So(got.Views["p1"], ShouldHaveLength, 1)
	})

	Convey("A later save replaces the earlier one", func() {
		So(store.Save(ctx, sampleRecord()), ShouldBeNil)
		So(store.Save(ctx, interaction.NewRecord()), ShouldBeNil)
		got, err := store.Load(ctx)
		So(err, ShouldBeNil)
		So(got.Empty(), ShouldBeTrue)
	})
}

func TestKey(t *testing.T) {
	Convey("Keys are namespaced per session", t, func() {
		So(Key("alice"), ShouldEqual, "interactions:alice")
		So(Key(""), ShouldEqual, "interactions:local")
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		store := NewMemoryStore()
		behavesAsPersistence(store)

		Convey("Malformed bytes surface as ErrMalformed", func() {
			store.SetRaw([]byte("{not json"))
			_, err := store.Load(context.Background())
			So(errors.Is(err, interaction.ErrMalformed), ShouldBeTrue)
		})

		Convey("Successful saves are counted", func() {
			So(store.Save(context.Background(), interaction.NewRecord()), ShouldBeNil)
			So(store.Saves(), ShouldEqual, 1)
		})
	})
}

func TestBadgerStore(t *testing.T) {
	Convey("Given an in-memory badger store", t, func() {
		store, err := OpenBadger("", "test")
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		behavesAsPersistence(store)
	})
}

func TestRedisStore(t *testing.T) {
	Convey("Given a redis store over a fake client", t, func() {
		kv := newFakeKV()
		store := NewRedisStore(kv, "alice", time.Hour)
		behavesAsPersistence(store)

		Convey("The record is written under the session key with the ttl", func() {
			So(store.Save(context.Background(), interaction.NewRecord()), ShouldBeNil)
			_, ok := kv.values["interactions:alice"]
			So(ok, ShouldBeTrue)
			So(kv.ttl, ShouldEqual, time.Hour)
		})

		Convey("Client errors are returned", func() {
			kv.getErr = errors.New("connection refused")
			_, err := store.Load(context.Background())
			So(err, ShouldNotBeNil)
			So(errors.Is(err, interaction.ErrNotFound), ShouldBeFalse)

			kv.setErr = errors.New("read only")
			So(store.Save(context.Background(), interaction.NewRecord()), ShouldNotBeNil)
		})

		Convey("Close without a dialed client is a no-op", func() {
			So(store.Close(), ShouldBeNil)
		})
	})
}
