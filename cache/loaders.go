package cache

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/zefrenchwan/lineage.git/metrics"
	"github.com/zefrenchwan/lineage.git/people"
	"golang.org/x/sync/singleflight"
)

// DEFAULT_CAPACITY is the default number of cached profiles
const DEFAULT_CAPACITY = 500

// Loader decorates a profile loader with a bounded cache.
// Only missing profiles are fetched, and identical concurrent fetches run once.
type Loader struct {
	source  people.Loader
	records *Bounded[int, people.Record]
	group   singleflight.Group
}

// NewLoader returns a loader caching up to capacity profiles from source
func NewLoader(source people.Loader, capacity int) *Loader {
	records := NewBounded[int, people.Record](capacity)
	records.OnEvict(func(int, people.Record) {
		metrics.CacheEvictions.Inc()
	})

	return &Loader{
		source:  source,
		records: records,
	}
}

// Cached returns the cached profile, if any
func (l *Loader) Cached(id int) (people.Record, bool) {
	return l.records.Get(id)
}

// Size returns the number of cached profiles
func (l *Loader) Size() int {
	return l.records.Size()
}

// LoadProfiles returns profiles for ids, in ids order. Profiles source did not find are skipped
func (l *Loader) LoadProfiles(ctx context.Context, ids []int) ([]people.Record, error) {
	if l == nil || l.source == nil {
		return nil, errors.New("nil loader")
	}

	found := make(map[int]people.Record, len(ids))
	missing := make([]int, 0)
	for _, id := range ids {
		if _, done := found[id]; done || slices.Contains(missing, id) {
			continue
		} else if record, hit := l.records.Get(id); hit {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			found[id] = record
		} else {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			missing = append(missing, id)
		}
	}

	if len(missing) != 0 {
		slices.Sort(missing)
		value, err, _ := l.group.Do(fetchKey(missing), func() (any, error) {
			return l.source.LoadProfiles(ctx, missing)
		})

		if err != nil {
			return nil, err
		}

		for _, record := range value.([]people.Record) {
			l.records.Set(record.Id, record)
			found[record.Id] = record
		}
	}

	result := make([]people.Record, 0, len(found))
	seen := make(map[int]bool, len(found))
	for _, id := range ids {
		if record, ok := found[id]; ok && !seen[id] {
			seen[id] = true
			result = append(result, record)
		}
	}

	return result, nil
}

// fetchKey identifies a fetch of sorted ids
func fetchKey(ids []int) string {
	values := make([]string, len(ids))
	for index, id := range ids {
		values[index] = strconv.Itoa(id)
	}

	return strings.Join(values, ",")
}
