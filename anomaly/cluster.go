package anomaly

import (
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/rng"
)

// Cluster groups a sequence of related anomalies in one fraud category
// (§4.5.4). WindowDays records the category window drawn when the
// cluster opens; membership is decided by size and the continuation
// draw only, and no posting date is checked against the window.
type Cluster struct {
	ID            id.ID
	FraudCategory FraudCategory
	WindowDays    int
	MemberIDs     []id.ID
}

// ClusterManagerOptions tunes cluster formation.
type ClusterManagerOptions struct {
	StartP        float64 // probability of opening a new cluster
	ContinuationP float64 // probability of extending an open cluster
	MinSize       int
	MaxSize       int
}

// DefaultClusterManagerOptions returns the spec defaults (§4.5.4).
func DefaultClusterManagerOptions() ClusterManagerOptions {
	return ClusterManagerOptions{StartP: 0.3, ContinuationP: 0.7, MinSize: 2, MaxSize: 6}
}

// ClusterManager tracks one open cluster per fraud category, deciding
// whether a new anomaly joins an existing cluster, starts a new one, or
// stands alone.
type ClusterManager struct {
	opts ClusterManagerOptions
	open map[FraudCategory]*Cluster
}

// NewClusterManager creates a manager with the given options.
func NewClusterManager(opts ClusterManagerOptions) *ClusterManager {
	return &ClusterManager{opts: opts, open: make(map[FraudCategory]*Cluster)}
}

// Assign decides cluster membership for a new anomaly ID in the given
// fraud category, returning the cluster it joined (nil if standalone)
// and whether a new cluster was just formed.
func (m *ClusterManager) Assign(source *rng.Source, cat FraudCategory, anomalyID id.ID) (cluster *Cluster, formed bool) {
	if existing, ok := m.open[cat]; ok {
		if len(existing.MemberIDs) < m.opts.MaxSize && source.GenBool(m.opts.ContinuationP) {
			existing.MemberIDs = append(existing.MemberIDs, anomalyID)
			if len(existing.MemberIDs) >= m.opts.MaxSize {
				delete(m.open, cat)
			}
			return existing, false
		}
		// Close the existing cluster; possibly start a fresh one below.
		// Clusters below MinSize are still recorded as-is: the evaluator
		// treats cluster size as a coherence signal, not a hard floor.
		delete(m.open, cat)
	}

	if !source.GenBool(m.opts.StartP) {
		return nil, false
	}

	window := fraudCategoryWindows[cat]
	days := window.Min + source.Choose(window.Max-window.Min+1)
	c := &Cluster{
		ID:            id.New(id.PrefixCluster),
		FraudCategory: cat,
		WindowDays:    days,
		MemberIDs:     []id.ID{anomalyID},
	}
	m.open[cat] = c
	return c, true
}
