// Package library holds the in-memory view logic for a fetched video list:
// minimum-rating filtering and the three rating/recency sort orders.
package library

import (
	"sort"
	"time"
)

// Sort keys accepted by the list endpoint.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortRatingDesc = "rating_desc"
	SortRatingAsc  = "rating_asc"
)

// Sentinels substituted for an absent rating while sorting. The two
// directions intentionally use different values; both place unrated items
// after every rated item.
const (
	unratedDesc = -1
	unratedAsc  = 999
)

// Item is one entry of the assembled video library.
type Item struct {
	Key          string    `json:"key"`
	Name         string    `json:"name,omitempty"`
	URL          string    `json:"url"`
	ThumbURL     string    `json:"thumbUrl,omitempty"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	Rating       *int      `json:"rating"`
	Club         string    `json:"club,omitempty"`
	ShotType     string    `json:"shotType,omitempty"`
	Tags         []string  `json:"tags"`
	Notes        string    `json:"notes"`
	Favorite     bool      `json:"favorite"`
}

// FilterMinRating keeps items whose rating is at least threshold. An absent
// rating counts as zero, so any threshold above zero drops unrated items.
func FilterMinRating(items []Item, threshold int) []Item {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		rating := 0
		if item.Rating != nil {
			rating = *item.Rating
		}
		if rating >= threshold {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Sort orders items in place by the provided key. Unknown keys sort newest
// first.
func Sort(items []Item, key string) {
	switch key {
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].LastModified.Before(items[j].LastModified)
		})
	case SortRatingDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return ratingOr(items[i], unratedDesc) > ratingOr(items[j], unratedDesc)
		})
	case SortRatingAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return ratingOr(items[i], unratedAsc) < ratingOr(items[j], unratedAsc)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].LastModified.After(items[j].LastModified)
		})
	}
}

func ratingOr(item Item, sentinel int) int {
	if item.Rating == nil {
		return sentinel
	}
	return *item.Rating
}
