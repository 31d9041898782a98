package monitor

import "sort"

// retention counts consecutive successful ticks an interface has been absent
// and reports the ones past the limit. A zero limit never expires anything.
type retention struct {
	limit   int
	missing map[string]int
}

func newRetention(limit int) *retention {
	return &retention{limit: limit, missing: make(map[string]int)}
}

// observe is called once per successful tick with the tracked interfaces and
// the ones present in the latest snapshot. It returns the names to purge.
func (r *retention) observe(tracked []string, present map[string]bool) []string {
	var expired []string
	for _, name := range tracked {
		if present[name] {
			delete(r.missing, name)
			continue
		}
		r.missing[name]++
		if r.limit > 0 && r.missing[name] >= r.limit {
			expired = append(expired, name)
			delete(r.missing, name)
		}
	}
	sort.Strings(expired)
	return expired
}
