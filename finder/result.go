package finder

import "github.com/pf-cli/pf/util"

// ResultSet accumulates confirmed URLs for one invocation. It only grows and
// is safe for concurrent use.
type ResultSet struct {
	set util.SyncSet[string]
}

func NewResultSet() *ResultSet {
	return &ResultSet{}
}

// Add records url and reports whether it was new.
func (r *ResultSet) Add(url string) bool {
	return r.set.Add(url)
}

func (r *ResultSet) Len() int {
	return r.set.Len()
}

// Slice returns the confirmed URLs in ascending order.
func (r *ResultSet) Slice() []string {
	return r.set.Slice()
}
