package store

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumaker/internal/resume"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	kv, err := NewGormKV(db)
	if err != nil {
		t.Fatalf("init kv: %v", err)
	}
	return New(kv)
}

func sampleCollection(t *testing.T, n int) []resume.UserResume {
	t.Helper()
	out := make([]resume.UserResume, 0, n)
	for i := 0; i < n; i++ {
		r, err := resume.New(i+1, out)
		if err != nil {
			t.Fatalf("create sample resume: %v", err)
		}
		r.CreatedAt = time.Date(2024, 3, 1+i, 10, 0, 0, 0, time.UTC)
		out = append(out, r)
	}
	return out
}

func TestStore_EmptyStorage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.LoadUser(ctx)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user != nil {
		t.Fatalf("expected absent user, got %+v", user)
	}

	resumes, err := s.LoadResumes(ctx)
	if err != nil {
		t.Fatalf("load resumes: %v", err)
	}
	if len(resumes) != 0 {
		t.Fatalf("expected empty collection, got %d entries", len(resumes))
	}
}

func TestStore_UserRoundTripAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := resume.User{ID: "u-1", Email: "demo@resumaker.pro", Name: "Demo User"}
	if err := s.SaveUser(ctx, user); err != nil {
		t.Fatalf("save user: %v", err)
	}

	resumes := sampleCollection(t, 2)
	if err := s.SaveResumes(ctx, resumes); err != nil {
		t.Fatalf("save resumes: %v", err)
	}

	loaded, err := s.LoadUser(ctx)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if loaded == nil || *loaded != user {
		t.Fatalf("user round trip mismatch: %+v", loaded)
	}

	// 退出登录只清身份，简历集合原样保留。
	if err := s.ClearUser(ctx); err != nil {
		t.Fatalf("clear user: %v", err)
	}
	if loaded, err = s.LoadUser(ctx); err != nil || loaded != nil {
		t.Fatalf("expected absent user after clear, got %+v err=%v", loaded, err)
	}
	kept, err := s.LoadResumes(ctx)
	if err != nil {
		t.Fatalf("load resumes after clear: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("resume collection should survive logout, got %d entries", len(kept))
	}
}

func TestStore_ResumeCollectionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for n := 0; n <= resume.MaxResumesPerUser; n++ {
		collection := sampleCollection(t, n)
		if err := s.SaveResumes(ctx, collection); err != nil {
			t.Fatalf("save %d resumes: %v", n, err)
		}
		loaded, err := s.LoadResumes(ctx)
		if err != nil {
			t.Fatalf("load %d resumes: %v", n, err)
		}
		if !reflect.DeepEqual(loaded, collection) {
			t.Fatalf("round trip mismatch at size %d:\n got %+v\nwant %+v", n, loaded, collection)
		}
	}
}

func TestStore_SaveReplacesWholeCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveResumes(ctx, sampleCollection(t, 4)); err != nil {
		t.Fatalf("save: %v", err)
	}
	smaller := sampleCollection(t, 1)
	if err := s.SaveResumes(ctx, smaller); err != nil {
		t.Fatalf("save replacement: %v", err)
	}

	loaded, err := s.LoadResumes(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, smaller) {
		t.Fatalf("save should replace, not merge: %+v", loaded)
	}
}

func TestStore_CorruptPayloadPropagates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.kv.Set(ctx, userKey, []byte(`"not an object`)); err != nil {
		t.Fatalf("seed corrupt user: %v", err)
	}
	if _, err := s.LoadUser(ctx); err == nil {
		t.Fatal("expected parse error for corrupt user snapshot")
	}

	if err := s.kv.Set(ctx, resumesKey, []byte(`{"oops":`)); err != nil {
		t.Fatalf("seed corrupt resumes: %v", err)
	}
	if _, err := s.LoadResumes(ctx); err == nil {
		t.Fatal("expected parse error for corrupt resume collection")
	}
}
