package catalog

import "testing"

func TestAll_CatalogShape(t *testing.T) {
	all := All()
	if len(all) != TemplateCount {
		t.Fatalf("expected %d templates, got %d", TemplateCount, len(all))
	}

	cats := Categories()
	for i, tmpl := range all {
		if tmpl.ID != i+1 {
			t.Fatalf("template %d has id %d", i, tmpl.ID)
		}
		if tmpl.Category != cats[i%len(cats)] {
			t.Fatalf("template %d: expected category %s, got %s", tmpl.ID, cats[i%len(cats)], tmpl.Category)
		}
		if tmpl.Thumbnail == "" || tmpl.Name == "" {
			t.Fatalf("template %d missing name or thumbnail", tmpl.ID)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Fatal("All leaked the internal catalog slice")
	}
}

func TestByCategory(t *testing.T) {
	modern := ByCategory(CategoryModern)
	if len(modern) != 5 {
		t.Fatalf("expected 5 Modern templates, got %d", len(modern))
	}
	for _, tmpl := range modern {
		if tmpl.Category != CategoryModern {
			t.Fatalf("template %d has category %s", tmpl.ID, tmpl.Category)
		}
	}

	if got := len(ByCategory("")); got != TemplateCount {
		t.Fatalf("empty category should return full catalog, got %d", got)
	}
	if got := len(ByCategory("Unknown")); got != 0 {
		t.Fatalf("unknown category should return nothing, got %d", got)
	}
}

func TestByID(t *testing.T) {
	tmpl, ok := ByID(25)
	if !ok || tmpl.ID != 25 {
		t.Fatalf("expected template 25, got %+v ok=%v", tmpl, ok)
	}
	if _, ok := ByID(26); ok {
		t.Fatal("template 26 should not exist")
	}
}

func TestPagination(t *testing.T) {
	all := All()

	page := Page(all, 0)
	if len(page) != InitialPageSize {
		t.Fatalf("initial page should have %d entries, got %d", InitialPageSize, len(page))
	}

	next := NextVisible(all, InitialPageSize)
	if next != InitialPageSize+PageIncrement {
		t.Fatalf("expected next visible %d, got %d", InitialPageSize+PageIncrement, next)
	}

	page = Page(all, next)
	if len(page) != TemplateCount {
		t.Fatalf("second page should cover the catalog, got %d", len(page))
	}
	if NextVisible(all, next) != 0 {
		t.Fatal("no further page expected once the catalog is exhausted")
	}

	// 过滤后的列表同样分页。
	modern := ByCategory(CategoryModern)
	if got := Page(modern, 0); len(got) != len(modern) {
		t.Fatalf("short lists should be returned whole, got %d", len(got))
	}
	if NextVisible(modern, 0) != 0 {
		t.Fatal("short lists have no further pages")
	}
}
