// Package sampler draws a stratified sample of analyzed bills. Each impact
// tier contributes a fixed share of the target; within a tier the best
// progressing bills are taken first and the rest of the quota is filled at
// random.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/vijay-prabhu/billsample/internal/bill"
)

// ErrInvalidOptions is returned when sampling options are unusable
var ErrInvalidOptions = errors.New("invalid sampling options")

const (
	DefaultTargetTotal = 250
	DefaultTopFraction = 0.6

	ratioTolerance = 0.001

	// floorEpsilon absorbs float representation error, e.g. 0.7*100
	floorEpsilon = 1e-9
)

// DefaultRatios returns the default share of each tier
func DefaultRatios() map[bill.Tier]float64 {
	return map[bill.Tier]float64{
		bill.TierHigh:   0.30,
		bill.TierMedium: 0.40,
		bill.TierLow:    0.20,
		bill.TierMixed:  0.10,
	}
}

// Options configures a sampling pass
type Options struct {
	TargetTotal int
	Ratios      map[bill.Tier]float64
	TopFraction float64
}

// DefaultOptions returns the default sampling options
func DefaultOptions() Options {
	return Options{
		TargetTotal: DefaultTargetTotal,
		Ratios:      DefaultRatios(),
		TopFraction: DefaultTopFraction,
	}
}

// Validate checks the options before any corpus work starts
func (o Options) Validate() error {
	var errs []error

	if o.TargetTotal <= 0 {
		errs = append(errs, fmt.Errorf("target total must be positive, got %d", o.TargetTotal))
	}
	if o.TopFraction < 0 || o.TopFraction > 1 {
		errs = append(errs, fmt.Errorf("top fraction must be between 0 and 1, got %v", o.TopFraction))
	}

	sum, missing := 0.0, false
	for _, t := range bill.Tiers() {
		r, ok := o.Ratios[t]
		if !ok {
			errs = append(errs, fmt.Errorf("missing ratio for tier %s", t))
			missing = true
			continue
		}
		if r < 0 {
			errs = append(errs, fmt.Errorf("ratio for tier %s must not be negative, got %v", t, r))
		}
		sum += r
	}
	if !missing && math.Abs(sum-1) > ratioTolerance {
		errs = append(errs, fmt.Errorf("ratios must sum to 1.0, got %.3f", sum))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}
	return nil
}

// Quota returns floor(TargetTotal * ratio) for a tier
func (o Options) Quota(t bill.Tier) int {
	return floorMul(o.TargetTotal, o.Ratios[t])
}

// Source is the random source used to fill quotas. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a seeded PCG generator
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// TierResult holds the selection statistics of one tier
type TierResult struct {
	Tier        bill.Tier        `json:"tier"`
	Available   int              `json:"available"`
	Quota       int              `json:"quota"`
	TopCount    int              `json:"top"`
	RandomCount int              `json:"random"`
	Selected    int              `json:"selected"`
	Bills       []*bill.Analyzed `json:"-"`
}

// Result is the outcome of a sampling pass
type Result struct {
	Requested   int              `json:"requested"`
	TopFraction float64          `json:"top_fraction"`
	Tiers       []TierResult     `json:"tiers"`
	Selection   []*bill.Analyzed `json:"-"`
}

// Shortfall is how many bills fewer than requested were selected
func (r *Result) Shortfall() int {
	return r.Requested - len(r.Selection)
}

// Sample selects bills from the tier buckets. Tiers are visited in the
// order of bill.Tiers() and their selections concatenated in that order.
// A tier smaller than its quota is taken whole; the shortfall is not
// redistributed.
func Sample(buckets map[bill.Tier][]*bill.Analyzed, opts Options, rng Source) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidOptions)
	}

	result := &Result{Requested: opts.TargetTotal, TopFraction: opts.TopFraction}
	for _, t := range bill.Tiers() {
		tr := sampleTier(t, buckets[t], opts.Quota(t), opts.TopFraction, rng)
		result.Tiers = append(result.Tiers, tr)
		result.Selection = append(result.Selection, tr.Bills...)
	}
	return result, nil
}

func sampleTier(t bill.Tier, bucket []*bill.Analyzed, quota int, topFraction float64, rng Source) TierResult {
	tr := TierResult{Tier: t, Available: len(bucket), Quota: quota}

	if len(bucket) <= quota {
		tr.Bills = append([]*bill.Analyzed(nil), bucket...)
		tr.Selected = len(bucket)
		return tr
	}

	ranked := Rank(bucket)
	top := floorMul(quota, topFraction)
	random := draw(ranked[top:], quota-top, rng)

	tr.Bills = make([]*bill.Analyzed, 0, top+len(random))
	tr.Bills = append(tr.Bills, ranked[:top]...)
	tr.Bills = append(tr.Bills, random...)
	tr.TopCount = top
	tr.RandomCount = len(random)
	tr.Selected = len(tr.Bills)
	return tr
}

// Rank returns a copy of bills ordered by progression score, then
// cosponsor count, both descending. Ties keep their input order.
func Rank(bills []*bill.Analyzed) []*bill.Analyzed {
	ranked := append([]*bill.Analyzed(nil), bills...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ProgressionScore != ranked[j].ProgressionScore {
			return ranked[i].ProgressionScore > ranked[j].ProgressionScore
		}
		return ranked[i].CosponsorCount > ranked[j].CosponsorCount
	})
	return ranked
}

// draw picks n bills uniformly without replacement using a partial
// Fisher-Yates shuffle over a copy of pool.
func draw(pool []*bill.Analyzed, n int, rng Source) []*bill.Analyzed {
	if n <= 0 {
		return nil
	}
	if n >= len(pool) {
		return append([]*bill.Analyzed(nil), pool...)
	}

	shuffled := append([]*bill.Analyzed(nil), pool...)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}

func floorMul(n int, f float64) int {
	return int(math.Floor(float64(n)*f + floorEpsilon))
}
