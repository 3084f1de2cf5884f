package dto

import (
	"testing"

	"github.com/cesargomez89/reelbox/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "title", Message: "is required"}
	if err.Error() != "title: is required" {
		t.Errorf("Error() = %q, want %q", err.Error(), "title: is required")
	}
}

func TestValidationError_ToMap(t *testing.T) {
	err := ValidationError{Field: "title", Message: "is required"}
	m := err.ToMap()
	if m["title"] != "is required" {
		t.Errorf("ToMap() = %v, want {title: is required}", m)
	}
}

func TestToMap(t *testing.T) {
	errs := []ValidationError{
		{Field: "path", Message: "is required"},
		{Field: "year", Message: "must be between 1900 and 2100"},
	}
	m := ToMap(errs)
	if len(m) != 2 {
		t.Errorf("ToMap() returned %d items, want 2", len(m))
	}
	if m["year"] != "must be between 1900 and 2100" {
		t.Errorf("ToMap()[year] = %q, want %q", m["year"], "must be between 1900 and 2100")
	}
}

func TestToResponse(t *testing.T) {
	errs := []ValidationError{
		{Field: "path", Message: "is required"},
		{Field: "year", Message: "invalid"},
	}
	resp := ToResponse(errs)
	expected := "path: is required; year: invalid"
	if resp != expected {
		t.Errorf("ToResponse() = %q, want %q", resp, expected)
	}
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestValidateYear(t *testing.T) {
	tests := []struct {
		year     *int
		name     string
		wantErrs int
	}{
		{nil, "nil year", 0},
		{intPtr(0), "unknown year", 0},
		{intPtr(1999), "valid year", 0},
		{intPtr(1800), "too early", 1},
		{intPtr(2200), "too late", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(validateYear(tt.year)); got != tt.wantErrs {
				t.Errorf("validateYear() = %d errors, want %d", got, tt.wantErrs)
			}
		})
	}
}

func TestMetadataUpdateRequest(t *testing.T) {
	req := MetadataUpdateRequest{Path: "relative.mkv", Rating: floatPtr(11), Duration: intPtr(-1)}
	if errs := req.Validate(); len(errs) != 3 {
		t.Errorf("Expected 3 errors, got %v", errs)
	}

	req = MetadataUpdateRequest{Path: "/m/a.mkv", Title: strPtr("Alien"), Year: intPtr(1979)}
	if errs := req.Validate(); len(errs) != 0 {
		t.Fatalf("Expected no errors, got %v", errs)
	}

	m := domain.FileMetadata{Genre: "Horror", Title: "old", Source: domain.MetadataSourceProbe}
	req.ApplyTo(&m)
	if m.Title != "Alien" || m.Year != 1979 || m.Genre != "Horror" {
		t.Errorf("Unexpected merge result: %+v", m)
	}
	if m.Source != domain.MetadataSourceManual {
		t.Errorf("Expected manual source, got %s", m.Source)
	}
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name     string
		errs     []ValidationError
		wantErrs int
	}{
		{"path ok", (&PathRequest{Path: "/m/a.mkv"}).Validate(), 0},
		{"path missing", (&PathRequest{}).Validate(), 1},
		{"bookmark", (&BookmarkRequest{Dir: "media", Name: ""}).Validate(), 2},
		{"playlist blank", (&PlaylistRequest{Name: "  "}).Validate(), 1},
		{"reorder", (&ReorderRequest{Paths: []string{"/a", "b"}}).Validate(), 1},
		{"sort bogus", (&SortRequest{Sort: "random"}).Validate(), 1},
		{"sort ok", (&SortRequest{Sort: "size_desc"}).Validate(), 0},
		{"playback action", (&PlaybackStartRequest{Path: "/a.mkv", Action: "later"}).Validate(), 1},
		{"progress", (&ProgressRequest{Position: -1, Length: -1}).Validate(), 2},
		{"profile", (&ProfileRequest{}).Validate(), 1},
		{"switch", (&SwitchProfileRequest{Name: "kids"}).Validate(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.errs) != tt.wantErrs {
				t.Errorf("Expected %d errors, got %v", tt.wantErrs, tt.errs)
			}
		})
	}
}
