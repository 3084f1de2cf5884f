package scanner

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

func names(rows []domain.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func sortFixture() []domain.Row {
	base := time.Unix(1_700_000_000, 0)
	return []domain.Row{
		{Name: "b.mkv", Kind: domain.KindFile, Size: 300, ModTime: base.Add(1 * time.Hour)},
		{Name: "zeta", Kind: domain.KindDir},
		{Name: "A.mkv", Kind: domain.KindFile, Size: 100, ModTime: base.Add(3 * time.Hour)},
		{Name: "Alpha", Kind: domain.KindDir},
		{Name: "c.mkv", Kind: domain.KindFile, Size: 200, ModTime: base.Add(2 * time.Hour)},
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{constants.SortNameAsc, []string{"Alpha", "zeta", "A.mkv", "b.mkv", "c.mkv"}},
		{constants.SortNameDesc, []string{"Alpha", "zeta", "c.mkv", "b.mkv", "A.mkv"}},
		{constants.SortDateAsc, []string{"Alpha", "zeta", "b.mkv", "c.mkv", "A.mkv"}},
		{constants.SortDateDesc, []string{"Alpha", "zeta", "A.mkv", "c.mkv", "b.mkv"}},
		{constants.SortSizeAsc, []string{"Alpha", "zeta", "A.mkv", "c.mkv", "b.mkv"}},
		{constants.SortSizeDesc, []string{"Alpha", "zeta", "b.mkv", "c.mkv", "A.mkv"}},
		{"bogus", []string{"Alpha", "zeta", "A.mkv", "b.mkv", "c.mkv"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			rows := sortFixture()
			Sort(rows, tt.key)
			if diff := cmp.Diff(tt.want, names(rows)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithParent(t *testing.T) {
	rows := []domain.Row{{Name: "a.mkv", Kind: domain.KindFile}}

	got := WithParent(rows, "/media/hdd/movies/")
	if len(got) != 2 || got[0].Kind != domain.KindParent || got[0].Path != "/media/hdd" {
		t.Errorf("Unexpected parent row: %+v", got)
	}

	if got := WithParent(rows, "/"); len(got) != 1 {
		t.Errorf("Expected no parent at root, got %d rows", len(got))
	}

	sorted := WithParent(sortFixture(), "/media")
	Sort(sorted, constants.SortSizeDesc)
	if sorted[0].Kind != domain.KindParent {
		t.Error("Expected parent row to stay first after sorting")
	}
}
