// Package graphdata holds the in-memory, read-only transit graph and stop
// metadata that the routing core queries. A Store is built once at process
// startup (from transit_graph.json and stops_metadata.json, see load.go)
// and never mutated afterward; all accessor methods are safe for concurrent
// readers.
package graphdata

import (
	"sync"

	"github.com/commutesg/routecore/internal/models"
)

// Store is the opaque read-only accessor over a TransitGraph and its
// StopMetadata, keyed by string NodeID.
type Store struct {
	mu     sync.RWMutex
	graph  models.TransitGraph
	meta   map[models.NodeID]models.StopMetadata
	loaded bool
}

// New returns an empty, not-yet-loaded Store.
func New() *Store {
	return &Store{
		graph: make(models.TransitGraph),
		meta:  make(map[models.NodeID]models.StopMetadata),
	}
}

// Replace atomically swaps in a freshly loaded graph and metadata set. In
// cmd/server it is called once, by Load, at worker startup.
func (s *Store) Replace(graph models.TransitGraph, meta map[models.NodeID]models.StopMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = graph
	s.meta = meta
	s.loaded = true
}

// IsLoaded reports whether Replace has been called.
func (s *Store) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Neighbours returns the AdjacencyMap for u, or an empty (non-nil) map if u
// has no outgoing edges or does not exist. It never fails.
func (s *Store) Neighbours(u models.NodeID) models.AdjacencyMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if adj, ok := s.graph[u]; ok {
		return adj
	}
	return models.AdjacencyMap{}
}

// HasNode reports whether u is present in the graph.
func (s *Store) HasNode(u models.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.graph[u]
	return ok
}

// Metadata returns the StopMetadata for u, if any.
func (s *Store) Metadata(u models.NodeID) (models.StopMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meta[u]
	return m, ok
}

// NodeCount returns the number of nodes currently loaded (diagnostic use).
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.graph)
}

// AllMetadata returns a copy of the full loaded stop metadata set, for
// callers (internal/worker) that need name lookups across an entire
// reconstructed path rather than one node at a time.
func (s *Store) AllMetadata() map[models.NodeID]models.StopMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta := make(map[models.NodeID]models.StopMetadata, len(s.meta))
	for id, m := range s.meta {
		meta[id] = m
	}
	return meta
}
