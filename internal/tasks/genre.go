package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

// DefaultGenres maps each weekday to its Deezer genre.
var DefaultGenres = map[time.Weekday]models.GenreID{
	time.Monday:    132,
	time.Tuesday:   152,
	time.Wednesday: 116,
	time.Thursday:  129,
	time.Friday:    113,
	time.Saturday:  197,
	time.Sunday:    106,
}

var genreNames = map[models.GenreID]string{
	132: "Pop",
	152: "Rock",
	116: "Hip Hop",
	129: "Jazz",
	113: "Dance",
	197: "K-Pop",
	106: "Electro",
}

// GenreSelector picks the genre of the day.
type GenreSelector struct {
	table map[time.Weekday]models.GenreID
}

// NewGenreSelector builds a selector from [DefaultGenres] with per-day overrides keyed by
// English day name (e.g. "monday" = 132).
func NewGenreSelector(overrides map[string]int) (*GenreSelector, error) {
	table := make(map[time.Weekday]models.GenreID, len(DefaultGenres))
	for day, id := range DefaultGenres {
		table[day] = id
	}

	for name, id := range overrides {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("%w: genres.%s: unknown day", shared.ErrInvalidConfig, name)
		}
		if id <= 0 {
			return nil, fmt.Errorf("%w: genres.%s: genre id must be positive, got %d", shared.ErrInvalidConfig, name, id)
		}
		table[day] = models.GenreID(id)
	}

	return &GenreSelector{table: table}, nil
}

// For returns the genre for day. Days outside Sunday..Saturday wrap [shared.ErrUnmappedGenre].
func (s *GenreSelector) For(day time.Weekday) (models.GenreID, error) {
	id, ok := s.table[day]
	if !ok {
		return 0, fmt.Errorf("%w: %d", shared.ErrUnmappedGenre, day)
	}
	return id, nil
}

// ParseWeekday parses an English day name, ignoring case and surrounding space.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == n {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", shared.ErrUnmappedGenre, name)
}

// GenreName returns the label of a known genre id, or "Genre {id}".
func GenreName(id models.GenreID) string {
	if name, ok := genreNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Genre %d", id)
}
