package contribution

// Baseline is the deterministic trend + seasonal decomposition of the
// outcome series. It is computed, never fitted.
type Baseline struct {
	Trend    []float64
	Seasonal []float64
	Combined []float64
}

// Decompose splits a series into a centered-moving-average trend and a
// mean-by-phase seasonal component with the given period. The seasonal
// component is centered so it sums to zero over one period.
func Decompose(series []float64, period int) *Baseline {
	n := len(series)
	b := &Baseline{
		Trend:    make([]float64, n),
		Seasonal: make([]float64, n),
		Combined: make([]float64, n),
	}
	if n == 0 {
		return b
	}
	if period < 1 || period > n {
		period = 1
	}

	half := period / 2
	for i := range series {
		lo := i - half
		hi := i + half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += series[j]
		}
		b.Trend[i] = sum / float64(hi-lo+1)
	}

	// Mean detrended value per phase.
	phaseSum := make([]float64, period)
	phaseCount := make([]int, period)
	for i := range series {
		p := i % period
		phaseSum[p] += series[i] - b.Trend[i]
		phaseCount[p]++
	}

	phaseMean := make([]float64, period)
	total := 0.0
	for p := range phaseMean {
		if phaseCount[p] > 0 {
			phaseMean[p] = phaseSum[p] / float64(phaseCount[p])
		}
		total += phaseMean[p]
	}

	// Center so the seasonal component carries no level of its own.
	offset := total / float64(period)
	for p := range phaseMean {
		phaseMean[p] -= offset
	}

	for i := range series {
		b.Seasonal[i] = phaseMean[i%period]
		b.Combined[i] = b.Trend[i] + b.Seasonal[i]
	}
	return b
}
