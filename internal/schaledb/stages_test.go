package schaledb_test

import (
	"testing"

	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

func TestDeriveStageFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id          int
		wantChapter string
		wantStage   string
	}{
		{11001, "11", "0"},
		{30101, "30", "10"},
		{1101, "11", "1"},
		{1001, "10", "1"},
		{34, "3", "4"},
		{90, "9", "0"},
		{7, "", ""}, // single digit: nothing derivable
		{150, "1", "50"},
		{0, "", ""},
	}

	for _, tt := range tests {
		chapter, stageNumber := schaledb.DeriveStageFields(tt.id)
		if chapter != tt.wantChapter || stageNumber != tt.wantStage {
			t.Errorf("DeriveStageFields(%d) = (%q, %q), want (%q, %q)",
				tt.id, chapter, stageNumber, tt.wantChapter, tt.wantStage)
		}
	}
}

func TestChapterFromID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id     int
		want   int
		wantOK bool
	}{
		{1001, 1, true},    // four digits: first digit
		{30101, 30, true},  // five digits: first two
		{301001, 30, true}, // six digits: first two
		{101, 0, false},    // three digits: underivable
		{7, 0, false},
		{1234567, 0, false},
	}

	for _, tt := range tests {
		got, ok := schaledb.ChapterFromID(tt.id)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ChapterFromID(%d) = (%d, %v), want (%d, %v)", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestGenerateStageName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stage schaledb.Record
		want  string
	}{
		{
			"campaign with level and terrain",
			schaledb.Record{"Category": "Campaign", "Stage": float64(4), "Level": float64(1), "Terrain": "Street"},
			"Main Story 4-1 (Street)",
		},
		{
			"week dungeon label",
			schaledb.Record{"Category": "WeekDungeon", "Stage": float64(3)},
			"Weekly Dungeon 3",
		},
		{
			"unknown category passes through",
			schaledb.Record{"Category": "EventQuest", "Stage": float64(2)},
			"EventQuest 2",
		},
		{
			"no category falls back to stage",
			schaledb.Record{"Stage": float64(7)},
			"Stage 7",
		},
		{
			"no category or stage falls back to id",
			schaledb.Record{"Id": float64(30101)},
			"Stage 30101",
		},
		{
			"empty record",
			schaledb.Record{},
			"Stage Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := schaledb.GenerateStageName(tt.stage); got != tt.want {
				t.Errorf("GenerateStageName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchableStageNumber(t *testing.T) {
	t.Parallel()

	stage := schaledb.Record{
		"StageNumber": "H3-2",
		"Stage":       float64(2),
		"Chapter":     "3",
		"Id":          float64(30202),
	}
	got := schaledb.SearchableStageNumber(stage)
	want := "H3-2 2 3-2 30202"
	if got != want {
		t.Errorf("SearchableStageNumber = %q, want %q", got, want)
	}

	if got := schaledb.SearchableStageNumber(schaledb.Record{}); got != "" {
		t.Errorf("SearchableStageNumber(empty) = %q, want empty", got)
	}
}
