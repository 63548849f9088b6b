package validation

import "testing"

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"defaults when empty", "", "", 1, 10},
		{"explicit values", "3", "25", 3, 25},
		{"page zero clamps to one", "0", "10", 1, 10},
		{"negative page clamps to one", "-5", "10", 1, 10},
		{"non-numeric page", "abc", "10", 1, 10},
		{"non-numeric limit falls back to default", "1", "abc", 1, 10},
		{"limit zero clamps to one", "1", "0", 1, 1},
		{"limit above cap clamps to cap", "1", "500", 1, 50},
		{"limit at cap", "1", "50", 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePagination(tt.page, tt.limit)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("ParsePagination(%q, %q) = {%d %d}, want {%d %d}",
					tt.page, tt.limit, p.Page, p.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	p := Pagination{Page: 3, Limit: 10}
	if got := p.Offset(); got != 20 {
		t.Errorf("Offset = %d, want 20", got)
	}
	p = Pagination{Page: 1, Limit: 50}
	if got := p.Offset(); got != 0 {
		t.Errorf("Offset = %d, want 0", got)
	}
}

func TestPagination_TotalPages(t *testing.T) {
	tests := []struct {
		total int
		limit int
		want  int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{100, 50, 2},
	}
	for _, tt := range tests {
		p := Pagination{Page: 1, Limit: tt.limit}
		if got := p.TotalPages(tt.total); got != tt.want {
			t.Errorf("TotalPages(total=%d, limit=%d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	if err := ValidateUUID("not-a-uuid"); err == nil {
		t.Error("invalid uuid accepted")
	}
	if err := ValidateUUID(""); err == nil {
		t.Error("empty uuid accepted")
	}
}
