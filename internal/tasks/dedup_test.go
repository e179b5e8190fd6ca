package tasks

import (
	"reflect"
	"testing"

	"github.com/desertthunder/musicarr/internal/models"
)

func track(title, artist string) models.Track {
	return models.Track{Title: title, Artist: artist, SourceURL: "https://www.deezer.com/track/" + title}
}

func record(title, artist string) models.HistoryRecord {
	return models.HistoryRecord{Title: title, Artist: artist}
}

func TestFilterNew(t *testing.T) {
	chart := []models.Track{track("A", "X"), track("B", "Y"), track("C", "Z"), track("D", "W")}

	tests := []struct {
		name    string
		chart   []models.Track
		history []models.HistoryRecord
		limit   int
		want    []models.Track
	}{
		{
			name:    "drops history keys",
			chart:   chart[:3],
			history: []models.HistoryRecord{record("B", "Y")},
			limit:   10,
			want:    []models.Track{track("A", "X"), track("C", "Z")},
		},
		{
			name:  "empty history keeps chart order",
			chart: chart,
			limit: 10,
			want:  chart,
		},
		{
			name:  "truncates to limit",
			chart: chart,
			limit: 2,
			want:  chart[:2],
		},
		{
			name:    "limit counts after filtering",
			chart:   chart,
			history: []models.HistoryRecord{record("A", "X")},
			limit:   2,
			want:    []models.Track{track("B", "Y"), track("C", "Z")},
		},
		{
			name:  "zero limit",
			chart: chart,
			limit: 0,
			want:  []models.Track{},
		},
		{
			name:    "exact key match only",
			chart:   []models.Track{track("a", "X"), track("A", "X "), track("A", "X")},
			history: []models.HistoryRecord{record("A", "X")},
			limit:   10,
			want:    []models.Track{track("a", "X"), track("A", "X ")},
		},
		{
			name:    "same title different artist",
			chart:   []models.Track{track("Hello", "Adele"), track("Hello", "Lionel Richie")},
			history: []models.HistoryRecord{record("Hello", "Adele")},
			limit:   10,
			want:    []models.Track{track("Hello", "Lionel Richie")},
		},
		{
			name:    "everything known",
			chart:   chart[:2],
			history: []models.HistoryRecord{record("B", "Y"), record("A", "X")},
			limit:   10,
			want:    []models.Track{},
		},
		{
			name:  "empty chart",
			limit: 10,
			want:  []models.Track{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterNew(tt.chart, tt.history, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterNew() = %v, want %v", got, tt.want)
			}

			historyKeys := make(map[models.TrackKey]bool)
			for _, h := range tt.history {
				historyKeys[h.Key()] = true
			}
			for _, g := range got {
				if historyKeys[g.Key()] {
					t.Errorf("FilterNew() returned history key %v", g.Key())
				}
			}
			if tt.limit >= 0 && len(got) > tt.limit {
				t.Errorf("FilterNew() returned %d tracks, limit %d", len(got), tt.limit)
			}
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		history := []models.HistoryRecord{record("C", "Z")}
		once := FilterNew(chart, history, 3)
		twice := FilterNew(once, history, 3)

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("FilterNew(FilterNew(x)) = %v, want %v", twice, once)
		}
	})

	t.Run("does not modify inputs", func(t *testing.T) {
		in := append([]models.Track(nil), chart...)
		FilterNew(in, []models.HistoryRecord{record("A", "X")}, 1)

		if !reflect.DeepEqual(in, chart) {
			t.Errorf("chart modified: %v", in)
		}
	})
}
