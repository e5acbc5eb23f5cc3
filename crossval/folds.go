// Package crossval partitions a sample universe into k disjoint folds
// and orchestrates train/evaluate callbacks across them.
package crossval

import (
	"fmt"
	"math/rand"
	"sort"
)

// FoldSet is a k-way partition of {0,...,N-1}. Folds are pairwise
// disjoint and jointly cover the universe; both properties are checked
// at construction.
type FoldSet struct {
	N     int
	Folds [][]int
}

// K returns the number of folds.
func (fs FoldSet) K() int { return len(fs.Folds) }

// Test returns the held-out indices of fold i.
func (fs FoldSet) Test(i int) []int { return fs.Folds[i] }

// Train returns all indices outside fold i, in ascending order.
func (fs FoldSet) Train(i int) []int {
	held := make(map[int]bool, len(fs.Folds[i]))
	for _, idx := range fs.Folds[i] {
		held[idx] = true
	}
	train := make([]int, 0, fs.N-len(fs.Folds[i]))
	for idx := 0; idx < fs.N; idx++ {
		if !held[idx] {
			train = append(train, idx)
		}
	}
	return train
}

// Folds builds a uniform-random k-way partition of n samples. The seed
// makes the partition reproducible.
func Folds(n, k int, seed int64) (FoldSet, error) {
	if err := checkFoldCount(n, k); err != nil {
		return FoldSet{}, err
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	fs := FoldSet{N: n, Folds: make([][]int, k)}
	// Spread the remainder over the leading folds so sizes differ by
	// at most one.
	base := n / k
	rem := n % k
	pos := 0
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		fold := make([]int, size)
		copy(fold, perm[pos:pos+size])
		sort.Ints(fold)
		fs.Folds[i] = fold
		pos += size
	}

	if err := checkPartition(fs); err != nil {
		return FoldSet{}, err
	}
	return fs, nil
}

// StratifiedFolds builds a k-way partition that approximately preserves
// each class's proportion per fold. labels[i] is the class of sample i.
// Disjointness and coverage are guaranteed; with very small per-class
// counts exact proportionality is not, and is not asserted.
func StratifiedFolds(labels []int, k int, seed int64) (FoldSet, error) {
	n := len(labels)
	if err := checkFoldCount(n, k); err != nil {
		return FoldSet{}, err
	}

	byClass := make(map[int][]int)
	classes := make([]int, 0)
	for i, c := range labels {
		if _, ok := byClass[c]; !ok {
			classes = append(classes, c)
		}
		byClass[c] = append(byClass[c], i)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	fs := FoldSet{N: n, Folds: make([][]int, k)}

	// Shuffle within each class, then deal round-robin across folds.
	next := 0
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		for _, sample := range idx {
			fs.Folds[next%k] = append(fs.Folds[next%k], sample)
			next++
		}
	}
	for i := range fs.Folds {
		sort.Ints(fs.Folds[i])
	}

	if err := checkPartition(fs); err != nil {
		return FoldSet{}, err
	}
	return fs, nil
}

func checkFoldCount(n, k int) error {
	if k < 2 || k > n {
		return fmt.Errorf("%w: k=%d must satisfy 2 <= k <= n=%d", ErrInvalidFoldCount, k, n)
	}
	return nil
}

// checkPartition verifies disjointness and coverage after construction.
func checkPartition(fs FoldSet) error {
	seen := make(map[int]int, fs.N)
	total := 0
	for fi, fold := range fs.Folds {
		for _, idx := range fold {
			if idx < 0 || idx >= fs.N {
				return fmt.Errorf("%w: index %d outside universe of %d", ErrBrokenPartition, idx, fs.N)
			}
			if prev, dup := seen[idx]; dup {
				return fmt.Errorf("%w: index %d in folds %d and %d", ErrBrokenPartition, idx, prev, fi)
			}
			seen[idx] = fi
			total++
		}
	}
	if total != fs.N {
		return fmt.Errorf("%w: folds cover %d of %d indices", ErrBrokenPartition, total, fs.N)
	}
	return nil
}
