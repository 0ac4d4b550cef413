package profile

import (
	"math"

	"github.com/rushteam/cinerank/core"
)

// Relative 把类型平均分换算为相对用户平均分的比值，并按样本数给出置信度：
//
//	score  = genre.score / average
//	weight = ConfidenceFloor + ConfidenceSpan*sqrt(count/max_count)
//
// average 必须为正：没有有效评分的用户无法个性化，调用方应在此之前短路。
func Relative(p core.GenreProfile, average float64, policy core.Policy) (core.RelativeGenreScore, error) {
	if average <= 0 || math.IsNaN(average) {
		return nil, core.MissingPrecondition(core.ModuleProfile, "average rating must be positive, got %v", average)
	}

	out := make(core.RelativeGenreScore, len(p))
	maxCount := p.MaxCount()
	if maxCount == 0 {
		return out, nil
	}
	for g, s := range p {
		out[g] = core.RelativeScore{
			Score:  s.Score / average,
			Weight: policy.ConfidenceFloor + policy.ConfidenceSpan*math.Sqrt(float64(s.Count)/float64(maxCount)),
		}
	}
	return out, nil
}
