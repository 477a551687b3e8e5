package training

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// StratifiedSplit partitions sample indices into train and test sets. The
// test set holds ceil(testSize*n) samples, allocated to classes in proportion
// to their size by largest remainder, and drawn from a seeded shuffle of
// each class. Both returned slices are sorted.
func StratifiedSplit(labels []int, testSize float64, seed uint64) ([]int, []int, error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	byClass := make(map[int][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	classes := make([]int, 0, len(byClass))
	for c, members := range byClass {
		if len(members) < 2 {
			return nil, nil, fmt.Errorf("class %d has %d samples; at least 2 are required to stratify", c, len(members))
		}
		classes = append(classes, c)
	}
	sort.Ints(classes)

	n := len(labels)
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, nil, fmt.Errorf("cannot split %d samples of %d classes with test size %v", n, len(classes), testSize)
	}

	quotas := allocate(nTest, classes, byClass, n)

	rng := rand.New(rand.NewPCG(seed, seed))
	var train, test []int
	for _, c := range classes {
		members := append([]int(nil), byClass[c]...)
		rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		test = append(test, members[:quotas[c]]...)
		train = append(train, members[quotas[c]:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// allocate distributes total slots across classes by largest remainder,
// keeping at least one sample of each class on both sides of the split
func allocate(total int, classes []int, byClass map[int][]int, n int) map[int]int {
	quotas := make(map[int]int, len(classes))
	type rem struct {
		class int
		frac  float64
	}
	rems := make([]rem, 0, len(classes))

	assigned := 0
	for _, c := range classes {
		exact := float64(total) * float64(len(byClass[c])) / float64(n)
		q := int(math.Floor(exact))
		quotas[c] = q
		assigned += q
		rems = append(rems, rem{class: c, frac: exact - float64(q)})
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; assigned < total; i = (i + 1) % len(rems) {
		c := rems[i].class
		if quotas[c] < len(byClass[c])-1 {
			quotas[c]++
			assigned++
		}
	}

	for _, c := range classes {
		if quotas[c] == 0 {
			// borrow from the largest quota
			largest := classes[0]
			for _, d := range classes {
				if quotas[d] > quotas[largest] {
					largest = d
				}
			}
			if quotas[largest] > 1 {
				quotas[largest]--
				quotas[c]++
			}
		}
	}
	return quotas
}
