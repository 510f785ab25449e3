package record

import "testing"

// --- RawRecord Tests ---

func TestRawRecord_IsMeaningful(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want bool
	}{
		{"empty", RawRecord{}, false},
		{"only contact data", RawRecord{Phones: []string{"080-1234567"}, SourceURL: "https://x.in"}, false},
		{"name", RawRecord{Name: "RVCE"}, true},
		{"courses", RawRecord{Courses: []string{"BE"}}, true},
		{"description", RawRecord{Description: "A college."}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.raw.IsMeaningful(); got != tt.want {
				t.Errorf("IsMeaningful() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- CanonicalRecord Tests ---

func TestCanonicalRecord_ToRaw(t *testing.T) {
	c := CanonicalRecord{
		Name:       "BMS College of Engineering",
		Phones:     []string{"080-26622130"},
		Courses:    Categorized{Items: []string{"BE Mechanical"}, TotalCount: 1},
		Facilities: Categorized{Items: []string{"Library"}, TotalCount: 1},
		SourceURL:  "https://bmsce.ac.in/",
	}

	raw := c.ToRaw()
	if raw.Name != c.Name || raw.SourceURL != c.SourceURL {
		t.Errorf("ToRaw() = %+v", raw)
	}
	if len(raw.Courses) != 1 || raw.Courses[0] != "BE Mechanical" || len(raw.Facilities) != 1 {
		t.Errorf("ToRaw() lists = %v, %v", raw.Courses, raw.Facilities)
	}

	raw.Phones[0] = "changed"
	raw.Courses[0] = "changed"
	if c.Phones[0] != "080-26622130" || c.Courses.Items[0] != "BE Mechanical" {
		t.Error("ToRaw() shares slices with the canonical record")
	}
}

func TestCategorized_UniqueCategories(t *testing.T) {
	c := Categorized{Categories: map[string][]string{"Engineering": {"BE"}, "Management": {"MBA"}}}
	if got := c.UniqueCategories(); got != 2 {
		t.Errorf("UniqueCategories() = %d, want 2", got)
	}
}
