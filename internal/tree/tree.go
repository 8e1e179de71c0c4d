// Package tree assembles the nested detailed-stats response. The key path of
// a leaf follows the active grouping flags in fixed order — username, then
// character name, then stat domain, then swing type (batting only) — with
// inactive levels skipped outright rather than filled with placeholders.
package tree

import (
	"strings"

	"go.uber.org/zap"
)

// Tree is the response payload: string-keyed maps all the way down to the
// leaf metric mappings.
type Tree map[string]any

// New creates an empty result tree. One tree lives per request.
func New() Tree {
	return Tree(make(map[string]any))
}

// Put merges one leaf metric mapping at the given key path, creating interior
// nodes as needed. Two passes landing on the same leaf path merge their
// metric maps last-write-wins per field; overlapping fields indicate a
// duplicate contribution by the caller and are logged at debug level rather
// than silently accepted.
func (t Tree) Put(log *zap.Logger, path []string, metrics map[string]any) {
	node := map[string]any(t)
	for _, key := range path[:len(path)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[key] = child
		}
		node = child
	}

	last := path[len(path)-1]
	leaf, ok := node[last].(map[string]any)
	if !ok {
		leaf = make(map[string]any)
		node[last] = leaf
	}
	for k, v := range metrics {
		if _, dup := leaf[k]; dup && log != nil {
			log.Debug("result tree leaf collision",
				zap.String("path", strings.Join(path, "/")),
				zap.String("metric", k),
			)
		}
		leaf[k] = v
	}
}

// Depth returns the number of key levels above the deepest metric mapping:
// a domain-only tree has depth 1, byUser+byChar yields 3, and so on. Used by
// tests to pin the shape contract.
func (t Tree) Depth() int {
	return depth(map[string]any(t))
}

func depth(node map[string]any) int {
	max := -1
	for _, v := range node {
		child, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if d := depth(child); d > max {
			max = d
		}
	}
	// A node with no map children is a metric leaf, not a key level.
	return max + 1
}
