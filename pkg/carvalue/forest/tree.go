package forest

import (
	"math/rand"
)

// Node is one entry of a flattened tree. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// Tree is stored as a flat node list rooted at index 0
type Tree struct {
	Nodes []Node
}

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	return t.depth(0)
}

func (t *Tree) depth(i int) int {
	n := t.Nodes[i]
	if n.Feature < 0 {
		return 0
	}
	l, r := t.depth(n.Left), t.depth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

type builder struct {
	x        [][]float64
	y        []float64
	width    int
	minSplit int
	rng      *rand.Rand
}

func (b *builder) grow(t *Tree, idx []int) int {
	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Feature: -1, Value: b.mean(idx)})

	if len(idx) < b.minSplit || b.pure(idx) {
		return node
	}

	feature, threshold, ok := b.split(idx)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(t, left)
	r := b.grow(t, right)

	t.Nodes[node].Feature = feature
	t.Nodes[node].Threshold = threshold
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

// split draws one random threshold per non-constant feature and keeps the one
// with the best variance reduction.
func (b *builder) split(idx []int) (int, float64, bool) {
	bestFeature := -1
	var bestThreshold, bestScore float64

	for _, f := range b.rng.Perm(b.width) {
		lo, hi := b.bounds(idx, f)
		if hi <= lo {
			continue
		}
		threshold := lo + b.rng.Float64()*(hi-lo)
		if threshold >= hi {
			threshold = lo
		}

		score := b.score(idx, f, threshold)
		if bestFeature < 0 || score > bestScore {
			bestFeature, bestThreshold, bestScore = f, threshold, score
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// score is sum_L^2/n_L + sum_R^2/n_R, which grows as the weighted child variance shrinks.
func (b *builder) score(idx []int, feature int, threshold float64) float64 {
	var sumL, sumR float64
	var nL, nR int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			sumL += b.y[i]
			nL++
		} else {
			sumR += b.y[i]
			nR++
		}
	}
	if nL == 0 || nR == 0 {
		return 0
	}
	return sumL*sumL/float64(nL) + sumR*sumR/float64(nR)
}

func (b *builder) bounds(idx []int, feature int) (float64, float64) {
	lo, hi := b.x[idx[0]][feature], b.x[idx[0]][feature]
	for _, i := range idx[1:] {
		v := b.x[i][feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func (b *builder) mean(idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += b.y[i]
	}
	return sum / float64(len(idx))
}

func (b *builder) pure(idx []int) bool {
	first := b.y[idx[0]]
	for _, i := range idx[1:] {
		if b.y[i] != first {
			return false
		}
	}
	return true
}
