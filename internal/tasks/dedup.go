package tasks

import "github.com/desertthunder/musicarr/internal/models"

// FilterNew returns, in chart order, at most limit chart tracks whose key is absent from history.
//
// history must be read before the current run saves anything.
func FilterNew(chart []models.Track, history []models.HistoryRecord, limit int) []models.Track {
	if limit <= 0 {
		return []models.Track{}
	}

	seen := make(map[models.TrackKey]struct{}, len(history))
	for _, h := range history {
		seen[h.Key()] = struct{}{}
	}

	selected := make([]models.Track, 0, min(limit, len(chart)))
	for _, t := range chart {
		if len(selected) == limit {
			break
		}
		if _, ok := seen[t.Key()]; ok {
			continue
		}
		selected = append(selected, t)
	}
	return selected
}
