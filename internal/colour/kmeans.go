package colour

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultMaxIterations bounds the clustering loop.
const DefaultMaxIterations = 300

// Point is one distinct colour and the number of pixels carrying it.
type Point struct {
	Coords [3]float64
	Weight int
}

// PointFromRGB builds a point from an 8-bit colour.
func PointFromRGB(rgb RGB, weight int) Point {
	return Point{Coords: [3]float64{float64(rgb.R), float64(rgb.G), float64(rgb.B)}, Weight: weight}
}

// RGB truncates the point coordinates to 8-bit channels.
func (p Point) RGB() RGB {
	return RGB{R: truncate(p.Coords[0]), G: truncate(p.Coords[1]), B: truncate(p.Coords[2])}
}

// Distance is the Euclidean distance between two points in colour space.
func (p Point) Distance(other Point) float64 {
	dr := p.Coords[0] - other.Coords[0]
	dg := p.Coords[1] - other.Coords[1]
	db := p.Coords[2] - other.Coords[2]
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Cluster is a group of points and the weighted mean of their coordinates.
type Cluster struct {
	Points []Point
	Center Point
}

// KMeans partitions weighted colour points into K clusters.
type KMeans struct {
	// K is the number of clusters.
	K int

	// MinDiff stops iteration once no centre moves further than this.
	MinDiff float64

	// MaxIterations caps the number of assignment/update rounds.
	// Zero means DefaultMaxIterations.
	MaxIterations int

	// Rand seeds the initial centres. Nil uses a time-seeded source.
	Rand *rand.Rand

	Logger hclog.Logger
}

// Cluster runs k-means over points and returns K clusters. Initial centres
// are K distinct points sampled without replacement.
func (km *KMeans) Cluster(points []Point) ([]Cluster, error) {
	if km.K < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", km.K)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no points to cluster")
	}
	if km.K > len(points) {
		return nil, fmt.Errorf("cluster count %d exceeds number of distinct points %d", km.K, len(points))
	}
	for _, p := range points {
		if p.Weight < 1 {
			return nil, fmt.Errorf("point %v has non-positive weight %d", p.Coords, p.Weight)
		}
	}

	logger := km.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	rng := km.Rand
	if rng == nil {
		// #nosec G404 -- seeding clusters is not security sensitive
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	maxIterations := km.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	clusters := make([]Cluster, km.K)
	for i, idx := range rng.Perm(len(points))[:km.K] {
		p := points[idx]
		clusters[i] = Cluster{Points: []Point{p}, Center: Point{Coords: p.Coords, Weight: 1}}
	}

	logger.Info("calculating dominant colours", "k", km.K, "points", len(points))

	for iter := 1; ; iter++ {
		assignments := Assign(points, centers(clusters))

		members := make([][]Point, km.K)
		for i, p := range points {
			members[assignments[i]] = append(members[assignments[i]], p)
		}

		diff := 0.0
		for i := range clusters {
			center := clusters[i].Center
			if len(members[i]) > 0 {
				center = WeightedMean(members[i])
			} else {
				logger.Debug("cluster received no points, keeping previous centre", "cluster", i, "iteration", iter)
			}
			diff = math.Max(diff, clusters[i].Center.Distance(center))
			clusters[i] = Cluster{Points: members[i], Center: center}
		}

		logger.Debug("k-means iteration", "iteration", iter, "diff", diff)
		if diff <= km.MinDiff {
			break
		}
		if iter >= maxIterations {
			logger.Warn("k-means did not converge", "iterations", iter, "diff", diff)
			break
		}
	}

	return clusters, nil
}

// Assign returns, for each point, the index of its nearest centre. The first
// centre at the smallest distance wins, so ties go to the lowest index.
func Assign(points, centers []Point) []int {
	assignments := make([]int, len(points))
	for i, p := range points {
		assignments[i] = nearest(p, centers)
	}
	return assignments
}

func nearest(p Point, centers []Point) int {
	minDist := math.Inf(1)
	idx := 0
	for i, c := range centers {
		if d := p.Distance(c); d < minDist {
			minDist = d
			idx = i
		}
	}
	return idx
}

// WeightedMean returns the weight-weighted mean of points with weight 1.
// It panics on an empty slice; callers guard degenerate clusters.
func WeightedMean(points []Point) Point {
	var sums [3]float64
	total := 0
	for _, p := range points {
		total += p.Weight
		for i := range sums {
			sums[i] += p.Coords[i] * float64(p.Weight)
		}
	}
	if total == 0 {
		panic("colour: weighted mean of empty point set")
	}
	for i := range sums {
		sums[i] /= float64(total)
	}
	return Point{Coords: sums, Weight: 1}
}

func centers(clusters []Cluster) []Point {
	out := make([]Point, len(clusters))
	for i, c := range clusters {
		out[i] = c.Center
	}
	return out
}

func truncate(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v)))
}
