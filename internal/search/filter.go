// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"

	"github.com/pdiddy/note-outline/pkg/types"
)

// DomainMarker must appear in a link for it to count as a note.com article.
const DomainMarker = TargetDomain + "/"

// Result count bounds.
const (
	MinNum     = 1
	MaxNum     = 10
	DefaultNum = 10
)

// ClampNum forces n into [MinNum, MaxNum].
func ClampNum(n int) int {
	return min(max(n, MinNum), MaxNum)
}

// Filter keeps entries whose link is a string containing DomainMarker, takes
// the first num of them in engine order, and ranks them 1..n by their
// position in the kept list. num is clamped first.
func Filter(entries []Entry, num int) []types.SearchResult {
	num = ClampNum(num)
	results := make([]types.SearchResult, 0, num)
	for _, e := range entries {
		if len(results) == num {
			break
		}
		link, ok := e.Link()
		if !ok || !strings.Contains(link, DomainMarker) {
			continue
		}
		results = append(results, types.SearchResult{
			Rank:      len(results) + 1,
			URL:       link,
			SERPTitle: e.Title(),
		})
	}
	return results
}
