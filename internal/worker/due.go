package worker

import (
	"sort"
	"time"

	"github.com/serpscope/serpscope/internal/types"
)

// DefaultRefreshInterval is the rolling freshness window per (word, provider)
// pair: at most one capture may exist inside it.
const DefaultRefreshInterval = 14 * 24 * time.Hour

// DuePairs computes which (word, provider) pairs need a new capture. A pair
// is due when it has never been captured, or when its most recent capture is
// at least interval old. Inputs must already be filtered to active words and
// providers; no status filtering happens here.
//
// This is a pure query with no side effects. The output order is stable
// (word ID, then provider ID) so runs are reproducible.
func DuePairs(words []*types.Word, providers []*types.Provider, latest map[types.PairKey]time.Time, now time.Time, interval time.Duration) []types.Pair {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	var due []types.Pair
	for _, w := range words {
		for _, p := range providers {
			ts, ok := latest[types.PairKey{WordID: w.ID, ProviderID: p.ID}]
			if ok && now.Sub(ts) < interval {
				continue // fresh capture exists inside the window
			}
			due = append(due, types.Pair{Word: w, Provider: p})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].Word.ID != due[j].Word.ID {
			return due[i].Word.ID < due[j].Word.ID
		}
		return due[i].Provider.ID < due[j].Provider.ID
	})

	return due
}
