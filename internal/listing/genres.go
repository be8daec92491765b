package listing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
)

// ResolveGenre turns a genre id or a (possibly partial) genre name into a
// genre from the shipped table. Unknown numeric ids are passed through
// with an empty name; the catalog decides whether they exist.
func ResolveGenre(arg string) (domain.Genre, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return domain.Genre{}, fmt.Errorf("empty genre")
	}

	if id, err := strconv.Atoi(arg); err == nil {
		if id <= 0 {
			return domain.Genre{}, fmt.Errorf("invalid genre id %d", id)
		}
		name, _ := domain.GenreName(id)
		return domain.Genre{ID: id, Name: name}, nil
	}

	names := make([]string, len(domain.MovieGenres))
	for i, g := range domain.MovieGenres {
		if strings.EqualFold(g.Name, arg) {
			return g, nil
		}
		names[i] = g.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(arg, names)
	if len(ranks) == 0 {
		return domain.Genre{}, fmt.Errorf("unknown genre %q", arg)
	}
	sort.Sort(ranks)
	return domain.MovieGenres[ranks[0].OriginalIndex], nil
}
