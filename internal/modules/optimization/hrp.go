package optimization

import (
	"math"
)

// varianceFloor keeps inverse-variance weights finite for flat series
const varianceFloor = 1e-12

// cluster is a node of the single-pass agglomerative dendrogram
type cluster struct {
	left, right *cluster
	members     []int
	first       int // smallest member index, used for deterministic ordering
}

func (c *cluster) leaf() bool {
	return c.left == nil && c.right == nil
}

// hierarchicalRiskParity builds a dendrogram on the correlation distance
// sqrt((1-ρ)/2) with average linkage, orders assets by its leaves and splits
// weight recursively between halves in inverse proportion to their variance.
// Returns nil when the result is not a valid weight vector.
func hierarchicalRiskParity(cov *CovarianceMatrix) []float64 {
	n := cov.Dims()
	if n == 1 {
		return []float64{1}
	}

	dist := correlationDistance(cov)
	order := leafOrder(linkAverage(dist))

	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	bisect(w, cov, order)

	total := sum(w)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

func correlationDistance(cov *CovarianceMatrix) [][]float64 {
	n := cov.Dims()
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i == j {
				continue
			}
			dist[i][j] = math.Sqrt(math.Max(0, (1-cov.Correlation(i, j))/2))
		}
	}
	return dist
}

// linkAverage merges the two closest clusters until one remains. Ties go to
// the pair with the smallest member indices so the result is reproducible.
func linkAverage(dist [][]float64) *cluster {
	clusters := make([]*cluster, len(dist))
	for i := range clusters {
		clusters[i] = &cluster{members: []int{i}, first: i}
	}

	for len(clusters) > 1 {
		bi, bj := 0, 1
		best := averageDistance(dist, clusters[0], clusters[1])
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				d := averageDistance(dist, clusters[i], clusters[j])
				if d < best || (d == best && pairBefore(clusters[i], clusters[j], clusters[bi], clusters[bj])) {
					best, bi, bj = d, i, j
				}
			}
		}

		a, b := clusters[bi], clusters[bj]
		if b.first < a.first {
			a, b = b, a
		}
		merged := &cluster{
			left:    a,
			right:   b,
			members: append(append([]int{}, a.members...), b.members...),
			first:   a.first,
		}

		next := clusters[:0:0]
		for k, c := range clusters {
			if k != bi && k != bj {
				next = append(next, c)
			}
		}
		clusters = append(next, merged)
	}
	return clusters[0]
}

func averageDistance(dist [][]float64, a, b *cluster) float64 {
	total := 0.0
	for _, i := range a.members {
		for _, j := range b.members {
			total += dist[i][j]
		}
	}
	return total / float64(len(a.members)*len(b.members))
}

func pairBefore(a1, b1, a2, b2 *cluster) bool {
	x1, y1 := min(a1.first, b1.first), max(a1.first, b1.first)
	x2, y2 := min(a2.first, b2.first), max(a2.first, b2.first)
	if x1 != x2 {
		return x1 < x2
	}
	return y1 < y2
}

func leafOrder(c *cluster) []int {
	if c.leaf() {
		return []int{c.members[0]}
	}
	return append(leafOrder(c.left), leafOrder(c.right)...)
}

// bisect splits the ordered assets in two and scales each half by
// 1 − v_half/(v_left + v_right), recursing until single assets remain.
func bisect(w []float64, cov *CovarianceMatrix, order []int) {
	if len(order) < 2 {
		return
	}
	left, right := order[:len(order)/2], order[len(order)/2:]

	vl, vr := inverseVarianceRisk(cov, left), inverseVarianceRisk(cov, right)
	alpha := 0.5
	if vl+vr > 0 {
		alpha = 1 - vl/(vl+vr)
	}

	for _, i := range left {
		w[i] *= alpha
	}
	for _, i := range right {
		w[i] *= 1 - alpha
	}

	bisect(w, cov, left)
	bisect(w, cov, right)
}

// inverseVarianceRisk is the variance of the inverse-variance portfolio over idx
func inverseVarianceRisk(cov *CovarianceMatrix, idx []int) float64 {
	if len(idx) == 1 {
		return math.Max(cov.At(idx[0], idx[0]), 0)
	}

	iv := make([]float64, len(idx))
	for k, i := range idx {
		iv[k] = 1 / math.Max(cov.At(i, i), varianceFloor)
	}
	total := sum(iv)

	variance := 0.0
	for a, i := range idx {
		for b, j := range idx {
			variance += iv[a] / total * cov.At(i, j) * iv[b] / total
		}
	}
	return math.Max(variance, 0)
}
