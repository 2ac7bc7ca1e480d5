package listutil

import (
	"net/url"
	"reflect"
	"testing"
)

// TestParsePageParams covers defaults and clamping.
func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PageParams
	}{
		{"empty", "", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"valid", "page=3&per_page=50", PageParams{Page: 3, PerPage: 50}},
		{"zero page", "page=0", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"negative page", "page=-2", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"disallowed per_page", "per_page=37", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"garbage", "page=abc&per_page=xyz", PageParams{Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := ParsePageParams(q); got != tt.want {
				t.Errorf("ParsePageParams(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

// TestNewPageInfo covers page clamping and total-page math.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
	}{
		{"first page", 1, 20, 45, 1, 3},
		{"exact fit", 2, 20, 40, 2, 2},
		{"page beyond end clamps", 9, 20, 45, 3, 3},
		{"empty list", 1, 20, 0, 1, 1},
		{"zero per page defaults", 1, 0, 45, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", info.Page, tt.wantPage)
			}
			if info.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", info.TotalPages, tt.wantPages)
			}
		})
	}
}

// TestPageInfo_Offset verifies the SQL offset calculation.
func TestPageInfo_Offset(t *testing.T) {
	info := NewPageInfo(3, 20, 100)
	if got := info.Offset(); got != 40 {
		t.Errorf("Offset = %d, want 40", got)
	}
}

// TestPageInfo_PageNumbers verifies the window stays centered and in range.
func TestPageInfo_PageNumbers(t *testing.T) {
	tests := []struct {
		name        string
		page, total int
		want        []int
	}{
		{"start of range", 1, 200, []int{1, 2, 3, 4, 5}},
		{"middle", 5, 200, []int{3, 4, 5, 6, 7}},
		{"end of range", 10, 200, []int{6, 7, 8, 9, 10}},
		{"few pages", 1, 45, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, 20, tt.total)
			if got := info.PageNumbers(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PageNumbers = %v, want %v", got, tt.want)
			}
		})
	}
}
