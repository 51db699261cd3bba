package resume

import (
	"testing"
)

func TestNew_SeedsDefaults(t *testing.T) {
	r, err := New(7, nil)
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	if r.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if r.TemplateID != 7 {
		t.Fatalf("expected templateId 7, got %d", r.TemplateID)
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be stamped")
	}

	want := DefaultContent()
	if r.Content.FirstName != want.FirstName || r.Content.Summary != want.Summary {
		t.Fatalf("content not seeded from defaults: %+v", r.Content)
	}
	if len(r.Content.Skills) != len(want.Skills) {
		t.Fatalf("expected %d skills, got %d", len(want.Skills), len(r.Content.Skills))
	}
	if r.Colors != DefaultColors() {
		t.Fatalf("colors not seeded from defaults: %+v", r.Colors)
	}
}

func TestNew_CopiesAreIndependent(t *testing.T) {
	first, err := New(1, nil)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := New(2, []UserResume{first})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	second.Content.Skills[0] = "Go"
	second.Content.Experience[0].Company = "Changed Inc."
	second.Content.FirstName = "Jane"

	if first.Content.Skills[0] != "React" {
		t.Fatalf("mutating second resume leaked into first: skills=%v", first.Content.Skills)
	}
	if first.Content.Experience[0].Company != "TechCorp Solutions" {
		t.Fatalf("mutating second resume leaked into first: experience=%v", first.Content.Experience)
	}
	if first.Content.FirstName != "John" {
		t.Fatalf("mutating second resume leaked into first: firstName=%q", first.Content.FirstName)
	}
}

func TestNew_RejectsFifthResume(t *testing.T) {
	var collection []UserResume
	for i := 0; i < MaxResumesPerUser; i++ {
		r, err := New(i+1, collection)
		if err != nil {
			t.Fatalf("create resume %d: %v", i+1, err)
		}
		collection = append(collection, r)
	}

	before := make([]string, 0, len(collection))
	for _, r := range collection {
		before = append(before, r.ID)
	}

	if _, err := New(5, collection); err != ErrLimitReached {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	if len(collection) != MaxResumesPerUser {
		t.Fatalf("collection grew past the bound: %d", len(collection))
	}
	for i, r := range collection {
		if r.ID != before[i] {
			t.Fatalf("collection element %d changed identity", i)
		}
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	var collection []UserResume
	for i := 0; i < MaxResumesPerUser; i++ {
		r, err := New(1, collection)
		if err != nil {
			t.Fatalf("create resume: %v", err)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate id %q", r.ID)
		}
		seen[r.ID] = true
		collection = append(collection, r)
	}
}

func TestClone_DeepCopiesSlices(t *testing.T) {
	original := DefaultContent()
	clone := original.Clone()

	clone.Skills[0] = "mutated"
	clone.Education[0].School = "mutated"

	if original.Skills[0] == "mutated" {
		t.Fatal("clone shares skills backing array")
	}
	if original.Education[0].School == "mutated" {
		t.Fatal("clone shares education backing array")
	}
}
