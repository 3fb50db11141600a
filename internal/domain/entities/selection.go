package entities

import "time"

// DefaultReviewBatchSize is the smallest review session SelectDueItems tries to fill.
const DefaultReviewBatchSize = 5

// SelectDueItems returns the candidate words that should be practised at now.
//
// Every candidate whose item is due is selected, in input order. When fewer than
// minBatch words are due, the result is topped up with candidates that were never
// reviewed, including candidates without any item, again in input order.
func SelectDueItems(candidates []string, items map[string]*LearningItem, now time.Time, minBatch int) []string {
	seen := make(map[string]struct{}, len(candidates))
	selected := make([]string, 0, max(minBatch, 0))

	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if item, ok := items[id]; ok && item.IsDue(now) {
			selected = append(selected, id)
		}
	}

	if len(selected) >= minBatch {
		return selected
	}

	picked := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		picked[id] = struct{}{}
	}

	for _, id := range candidates {
		if len(selected) >= minBatch {
			break
		}
		if _, ok := picked[id]; ok {
			continue
		}

		item, ok := items[id]
		if ok && !item.IsNew() {
			continue
		}

		picked[id] = struct{}{}
		selected = append(selected, id)
	}

	return selected
}

// IndexByWord keys items by word id. On duplicates the last item wins.
func IndexByWord(items []*LearningItem) map[string]*LearningItem {
	index := make(map[string]*LearningItem, len(items))
	for _, item := range items {
		index[item.WordID] = item
	}
	return index
}
