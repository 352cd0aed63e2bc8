package engine

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// Matcher decides whether a raw feed location string corresponds to a
// storage item. Flat items match by case-insensitive exact equality;
// rack items match an anchored "<code>-<floor>-<col>" pattern where
// both numeric groups are at least two digits, as produced by the feed.
// Compiled rack patterns are cached per location code.
type Matcher struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewMatcher creates a matcher with an empty pattern cache
func NewMatcher() *Matcher {
	return &Matcher{patterns: make(map[string]*regexp.Regexp)}
}

func (m *Matcher) rackPattern(locationCode string) *regexp.Regexp {
	code := strings.TrimSpace(locationCode)

	m.mu.Lock()
	defer m.mu.Unlock()
	if re, ok := m.patterns[code]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(code) + `-(\d{2,})-(\d{2,})$`)
	m.patterns[code] = re
	return re
}

// Matches reports whether rawLocation belongs to item. A non-match is
// not an error; the row is simply excluded from that item's rollup.
func (m *Matcher) Matches(item *models.StorageItem, rawLocation string) bool {
	if item.IsRack() {
		_, ok := m.MatchCell(item, rawLocation)
		return ok
	}
	return LocationEqual(item.LocationCode, rawLocation)
}

// MatchCell matches rawLocation against a rack item and extracts the
// 1-based floor and column indices from the location suffix. Returns
// false for flat items and for any location outside the anchored
// pattern ("A35B-01-02" must not match item "A35").
func (m *Matcher) MatchCell(item *models.StorageItem, rawLocation string) (CellKey, bool) {
	if !item.IsRack() {
		return CellKey{}, false
	}

	groups := m.rackPattern(item.LocationCode).FindStringSubmatch(strings.TrimSpace(rawLocation))
	if groups == nil {
		return CellKey{}, false
	}

	floor, err := strconv.Atoi(groups[1])
	if err != nil {
		return CellKey{}, false
	}
	col, err := strconv.Atoi(groups[2])
	if err != nil {
		return CellKey{}, false
	}
	return CellKey{Floor: floor, Col: col}, true
}
