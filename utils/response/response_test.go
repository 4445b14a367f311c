package response

import "testing"

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPage  int
		wantLimit int
		wantPages int
	}{
		{"exact division", 1, 10, 100, 1, 10, 10},
		{"partial last page", 2, 10, 95, 2, 10, 10},
		{"single page", 1, 20, 5, 1, 20, 1},
		{"empty result", 1, 10, 0, 1, 10, 0},
		{"page below one is clamped", 0, 10, 30, 1, 10, 3},
		{"limit below one gets default", 1, 0, 30, 1, 10, 3},
		{"limit above cap is clamped", 1, 500, 300, 1, 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := CalculatePagination(tt.page, tt.limit, tt.total)
			if meta.CurrentPage != tt.wantPage {
				t.Errorf("CurrentPage = %d, want %d", meta.CurrentPage, tt.wantPage)
			}
			if meta.PerPage != tt.wantLimit {
				t.Errorf("PerPage = %d, want %d", meta.PerPage, tt.wantLimit)
			}
			if meta.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.wantPages)
			}
			if meta.Total != tt.total {
				t.Errorf("Total = %d, want %d", meta.Total, tt.total)
			}
		})
	}
}
