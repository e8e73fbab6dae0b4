package selection

import "github.com/andareed/siftly-labeler/logging"

// RangeIDs returns the ids of order between anchor and picked, inclusive,
// whichever comes first. ok is false when either id is not in order.
func RangeIDs(order []int64, anchor, picked int64) ([]int64, bool) {
	posAnchor, posPicked := -1, -1
	for i, id := range order {
		if id == anchor {
			posAnchor = i
		}
		if id == picked {
			posPicked = i
		}
	}
	if posAnchor < 0 || posPicked < 0 {
		return nil, false
	}
	lo, hi := min(posAnchor, posPicked), max(posAnchor, posPicked)
	out := make([]int64, hi-lo+1)
	copy(out, order[lo:hi+1])
	return out, true
}

// Pick handles a row pick against the current display order. With extend
// set and an anchor present the run between anchor and id is unioned into
// the set and the anchor stays put; otherwise id is toggled explicitly.
func (m *Model) Pick(id int64, extend bool, order []int64) {
	if extend {
		if anchor, ok := m.Anchor(); ok {
			if ids, found := RangeIDs(order, anchor, id); found {
				logging.Debugf("selection: extend %d..%d adds %d rows", anchor, id, len(ids))
				m.add(ids)
				return
			}
			logging.Debugf("selection: anchor %d or pick %d not in display order, toggling", anchor, id)
		}
	}
	m.Toggle(id, true)
}
