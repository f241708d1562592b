// Package track owns an ordered sequence of subtitle entries and answers
// which entries are active at a given playback position.
package track

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"subweave/internal/provider"
	"subweave/internal/subtitle"
)

// ErrNotInitialized is returned by searches on a controller whose
// Initialize has not completed.
var ErrNotInitialized = errors.New("track: controller not initialized")

// Controller owns one track: the provider it was built from, the parser
// created for raw payloads, and the entry sequence itself. The sequence
// only grows after initialization; entries are never mutated in place.
type Controller struct {
	mu       sync.Mutex
	provider provider.Provider
	parser   subtitle.Parser
	entries  []subtitle.Entry
}

func New(p provider.Provider) *Controller {
	return &Controller{provider: p}
}

// initialized is true once a parser exists or entries have been loaded.
// A failed Initialize that set neither leaves a retry possible.
func (c *Controller) initialized() bool {
	return c.parser != nil || len(c.entries) > 0
}

// Initialize populates the controller from its provider. It runs once; a
// second call is a no-op. Pre-parsed provider results are appended without
// sorting — their order is the provider's responsibility. Raw results go
// through a format parser and the sequence is sorted afterwards.
//
// Provider and parser failures propagate unmodified; there is no retry at
// this layer. Searches must not run concurrently with Initialize.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized() {
		return nil
	}

	result, err := c.provider.Fetch(ctx)
	if err != nil {
		return err
	}

	switch r := result.(type) {
	case provider.Parsed:
		c.entries = append(c.entries, r.Entries...)
		return nil
	case provider.Raw:
		parser, err := subtitle.NewParser(r.Format, r.Payload)
		if err != nil {
			return err
		}
		c.parser = parser

		entries, err := parser.Parse()
		if err != nil {
			return err
		}
		c.entries = append(c.entries, entries...)
		c.sortEntries()
		return nil
	default:
		return fmt.Errorf("track: unknown provider result %T", result)
	}
}

// DurationSearch returns the entry active at the given position, or nil
// when no entry contains it. The entry sequence must be sorted ascending
// by start time and free of overlaps; with overlapping entries this search
// may miss a match that MultiDurationSearch would find.
func (c *Controller) DurationSearch(at time.Duration) (*subtitle.Entry, error) {
	if !c.initialized() {
		return nil, ErrNotInitialized
	}
	return c.search(at, 0, len(c.entries)-1), nil
}

func (c *Controller) search(at time.Duration, l, r int) *subtitle.Entry {
	if l > r {
		return nil
	}

	mid := l + (r-l)/2
	entry := c.entries[mid]

	if entry.InRange(at) {
		found := entry
		return &found
	}
	if entry.StartsAfter(at) {
		return c.search(at, l, mid-1)
	}
	return c.search(at, mid+1, r)
}

// MultiDurationSearch returns every entry whose interval contains the
// given position, in sequence order. Overlapping entries are all reported.
// An empty (or uninitialized) track yields an empty result, not an error.
func (c *Controller) MultiDurationSearch(at time.Duration) []subtitle.Entry {
	var matches []subtitle.Entry
	for _, entry := range c.entries {
		if entry.InRange(at) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Sort orders the entry sequence ascending by start time. The sort is
// stable, so entries with equal start times keep their relative order.
func (c *Controller) Sort() {
	c.sortEntries()
}

func (c *Controller) sortEntries() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Compare(c.entries[j]) < 0
	})
}

// GetAll joins the string form of every entry with the separator,
// preserving sequence order.
func (c *Controller) GetAll(separator string) string {
	parts := make([]string, len(c.entries))
	for i, entry := range c.entries {
		parts[i] = entry.String()
	}
	return strings.Join(parts, separator)
}

// Entries returns a copy of the entry sequence.
func (c *Controller) Entries() []subtitle.Entry {
	snapshot := make([]subtitle.Entry, len(c.entries))
	copy(snapshot, c.entries)
	return snapshot
}

// Len reports the number of entries in the track.
func (c *Controller) Len() int {
	return len(c.entries)
}
