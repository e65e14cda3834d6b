// Package split divides a sample into stratified train and test sets.
package split

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"menusample/internal/dataset"
	"menusample/internal/services"
)

// Options controls a split.
type Options struct {
	TestSize float64
	Seed     int64
	// Column is the sample column whose values define the strata.
	Column string
}

type stratum struct {
	value   string
	indices []int
	test    int
}

// Stratified shuffles each stratum with a generator seeded by opts.Seed and
// sends a proportional share of it to the test set. The test set holds
// ceil(TestSize*n) rows. Each stratum with at least two rows keeps at least
// one row on each side when the other strata can absorb the difference.
// Both outputs preserve input order, so equal inputs and seeds give equal
// splits.
func Stratified(rows []dataset.SampledRow, opts Options) (train, test []dataset.SampledRow, err error) {
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return nil, nil, services.Wrap(services.ErrValidation, "split", "validate", fmt.Sprintf("test size %v must be in (0, 1)", opts.TestSize), nil)
	}
	if len(rows) < 2 {
		return nil, nil, services.Wrap(services.ErrValidation, "split", "validate", fmt.Sprintf("need at least 2 rows, got %d", len(rows)), nil)
	}

	strata, err := groupStrata(rows, opts.Column)
	if err != nil {
		return nil, nil, err
	}
	n := len(rows)
	nTest := int(math.Ceil(opts.TestSize * float64(n)))
	nTest = min(max(nTest, 1), n-1)
	allocate(strata, n, nTest)

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)))
	inTest := make([]bool, n)
	for _, s := range strata {
		shuffled := append([]int(nil), s.indices...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, idx := range shuffled[:s.test] {
			inTest[idx] = true
		}
	}

	train = make([]dataset.SampledRow, 0, n-nTest)
	test = make([]dataset.SampledRow, 0, nTest)
	for i, row := range rows {
		if inTest[i] {
			test = append(test, row)
		} else {
			train = append(train, row)
		}
	}
	return train, test, nil
}

func groupStrata(rows []dataset.SampledRow, column string) ([]*stratum, error) {
	var strata []*stratum
	byValue := make(map[string]*stratum)
	for i, row := range rows {
		value, ok := row.Field(column)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "split", "stratify", fmt.Sprintf("unknown column %q", column), nil)
		}
		s, seen := byValue[value]
		if !seen {
			s = &stratum{value: value}
			byValue[value] = s
			strata = append(strata, s)
		}
		s.indices = append(s.indices, i)
	}
	return strata, nil
}

// allocate sets each stratum's test count. Shares are floored, the remainder
// goes to the largest fractional parts, then strata with no row on one side
// borrow from the strata with the most room.
func allocate(strata []*stratum, n, nTest int) {
	type share struct {
		s    *stratum
		frac float64
		pos  int
	}
	shares := make([]share, 0, len(strata))
	total := 0
	for i, s := range strata {
		exact := float64(len(s.indices)) * float64(nTest) / float64(n)
		s.test = int(math.Floor(exact))
		total += s.test
		shares = append(shares, share{s: s, frac: exact - float64(s.test), pos: i})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].frac > shares[j].frac })
	for i := 0; total < nTest && len(shares) > 0; i = (i + 1) % len(shares) {
		if s := shares[i].s; s.test < len(s.indices) {
			s.test++
			total++
		}
	}

	for _, s := range strata {
		size := len(s.indices)
		if size < 2 {
			continue
		}
		if s.test == 0 {
			if donor := pick(strata, s, testRoom); donor != nil {
				donor.test--
				s.test++
			}
		}
		if s.test == size {
			if taker := pick(strata, s, trainRoom); taker != nil {
				taker.test++
				s.test--
			}
		}
	}
}

// pick returns the stratum other than self with the largest positive room,
// earliest first on ties.
func pick(strata []*stratum, self *stratum, room func(*stratum) int) *stratum {
	var best *stratum
	bestRoom := 0
	for _, o := range strata {
		if o == self {
			continue
		}
		if r := room(o); r > bestRoom {
			best, bestRoom = o, r
		}
	}
	return best
}

// testRoom is how many test rows a stratum can give up without emptying its
// test side; singletons may give up their only row.
func testRoom(s *stratum) int {
	if len(s.indices) < 2 {
		return s.test
	}
	return s.test - 1
}

// trainRoom is how many more test rows a stratum can take without emptying
// its train side.
func trainRoom(s *stratum) int {
	if len(s.indices) < 2 {
		return len(s.indices) - s.test
	}
	return len(s.indices) - s.test - 1
}
