package pricefeed

// ReconciledPrice is the authoritative price chosen for one printing,
// tagged with the source that supplied it.
type ReconciledPrice struct {
	Value  float64
	Source string
}

// Reconciler resolves one authoritative price per printing across several
// independently-shaped sources, in a fixed priority order.
type Reconciler struct {
	sources  map[string]Index
	priority []string
}

// NewReconciler builds a reconciler over the given source indexes. Sources
// named in priority but absent from the map are simply skipped during
// resolution.
func NewReconciler(sources map[string]Index, priority []string) *Reconciler {
	return &Reconciler{sources: sources, priority: priority}
}

// Priority returns the configured source priority order.
func (r *Reconciler) Priority() []string {
	return r.priority
}

// Resolve returns the first usable price for the printing in priority
// order: the first source whose observation has a non-nil, positive value
// for the requested field wins. The second return is false when no source
// has usable data, which is a normal no-data outcome rather than an error.
//
// Resolution never consults map iteration order, so the chosen source is
// deterministic for a given priority list.
func (r *Reconciler) Resolve(printingID string, field Field) (ReconciledPrice, bool) {
	for _, name := range r.priority {
		idx, ok := r.sources[name]
		if !ok {
			continue
		}
		obs, ok := idx[printingID]
		if !ok {
			continue
		}
		if v := obs.value(field); v != nil && *v > 0 {
			return ReconciledPrice{Value: *v, Source: name}, true
		}
	}
	return ReconciledPrice{}, false
}

// Lookup adapts Resolve into the plain value lookup shape the summary
// builder consumes.
func (r *Reconciler) Lookup(field Field) func(printingID string) (float64, bool) {
	return func(printingID string) (float64, bool) {
		rp, ok := r.Resolve(printingID, field)
		return rp.Value, ok
	}
}

// Coverage reports, per source in priority order, how many of the given
// printing ids that source would supply under this priority ordering.
func (r *Reconciler) Coverage(printingIDs []string, field Field) map[string]int {
	counts := make(map[string]int, len(r.priority))
	for _, pid := range printingIDs {
		if rp, ok := r.Resolve(pid, field); ok {
			counts[rp.Source]++
		}
	}
	return counts
}
