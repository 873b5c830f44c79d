package pagination

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", "", 1, 10},
		{"explicit", "3", "25", 3, 25},
		{"zero_page_floors_to_one", "0", "10", 1, 10},
		{"negative_page_floors_to_one", "-5", "10", 1, 10},
		{"zero_limit_floors_to_one", "1", "0", 1, 1},
		{"limit_capped_at_max", "1", "500", 1, 100},
		{"garbage_falls_back", "abc", "xyz", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := Parse(tt.pageStr, tt.limitStr)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("Parse(%q, %q) = (%d, %d), want (%d, %d)",
					tt.pageStr, tt.limitStr, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 10); got != 0 {
		t.Errorf("expected offset 0 for page 1, got %d", got)
	}
	if got := Offset(3, 10); got != 20 {
		t.Errorf("expected offset 20 for page 3, got %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	t.Run("middle_page", func(t *testing.T) {
		meta := NewMeta(2, 10, 35)

		if meta.TotalPages != 4 {
			t.Errorf("expected 4 total pages, got %d", meta.TotalPages)
		}
		if !meta.HasNext || !meta.HasPrev {
			t.Error("page 2 of 4 should have both neighbors")
		}
		if meta.NextPage == nil || *meta.NextPage != 3 {
			t.Errorf("expected next page 3, got %v", meta.NextPage)
		}
		if meta.PrevPage == nil || *meta.PrevPage != 1 {
			t.Errorf("expected prev page 1, got %v", meta.PrevPage)
		}
	})

	t.Run("last_page", func(t *testing.T) {
		meta := NewMeta(4, 10, 35)

		if meta.HasNext {
			t.Error("last page should have no next page")
		}
		if meta.NextPage != nil {
			t.Errorf("expected nil next page, got %d", *meta.NextPage)
		}
	})

	t.Run("empty_result", func(t *testing.T) {
		meta := NewMeta(1, 10, 0)

		if meta.TotalPages != 0 {
			t.Errorf("expected 0 total pages, got %d", meta.TotalPages)
		}
		if meta.HasNext || meta.HasPrev {
			t.Error("empty result should have no neighbors")
		}
	})

	t.Run("exact_multiple", func(t *testing.T) {
		meta := NewMeta(2, 10, 20)

		if meta.TotalPages != 2 {
			t.Errorf("expected 2 total pages, got %d", meta.TotalPages)
		}
		if meta.HasNext {
			t.Error("page 2 of 2 should have no next page")
		}
	})
}
