package engine

import "stock_forecast/internal/feature/simulation/domain/entity"

// MaxSampledTrials is the target size of the downsampled trial list.
const MaxSampledTrials = 2000

// SampleTrials keeps every step-th trial in order, where
// step = max(1, len(trials)/target).
func SampleTrials(trials []entity.Trial, target int) []entity.Trial {
	step := 1
	if target > 0 {
		step = max(1, len(trials)/target)
	}
	out := make([]entity.Trial, 0, (len(trials)+step-1)/step)
	for i := 0; i < len(trials); i += step {
		out = append(out, trials[i])
	}
	return out
}
