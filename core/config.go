package core

import "fmt"

// Policy 集中定义打分策略中的所有常量，替换策略不需要改动控制流。
//
// 融合：final_score = PopularityWeight*popularity_rank + RatingWeight*rating_rank
//
// 个性化（第 i 个类型，按字典序，0 起）：
//
//	w  = 1/(i+1)
//	dw = 1 + (w-1)*Dampening
//	score >= 1: adjusted /= (BoostBase*score)   ^ (dw*(0.5+weight))
//	score <  1: adjusted /= (PenaltyBase*score) ^ (dw*(0.5+weight))
//	无条目:      adjusted *= UnknownGenreBase ^ dw
//
// 置信度：weight = ConfidenceFloor + ConfidenceSpan*sqrt(count/max_count)
type Policy struct {
	PopularityWeight float64 `koanf:"popularity_weight" yaml:"popularity_weight" validate:"gte=0"`
	RatingWeight     float64 `koanf:"rating_weight" yaml:"rating_weight" validate:"gte=0"`

	Dampening        float64 `koanf:"dampening" yaml:"dampening" validate:"gte=0,lte=1"`
	BoostBase        float64 `koanf:"boost_base" yaml:"boost_base" validate:"gt=0"`
	PenaltyBase      float64 `koanf:"penalty_base" yaml:"penalty_base" validate:"gt=0"`
	UnknownGenreBase float64 `koanf:"unknown_genre_base" yaml:"unknown_genre_base" validate:"gte=1"`

	ConfidenceFloor float64 `koanf:"confidence_floor" yaml:"confidence_floor" validate:"gte=0"`
	ConfidenceSpan  float64 `koanf:"confidence_span" yaml:"confidence_span" validate:"gte=0"`

	// Precision 是 adjusted_score 保留的小数位数
	Precision int `koanf:"precision" yaml:"precision" validate:"gte=0,lte=12"`

	// TopN 是默认返回的推荐数量
	TopN int `koanf:"top_n" yaml:"top_n" validate:"gte=1"`

	// NormalizeFusionKeys 为 true 时融合阶段也按 NormalizeTitle 做 join，默认按原始片名
	NormalizeFusionKeys bool `koanf:"normalize_fusion_keys" yaml:"normalize_fusion_keys"`
}

// DefaultPolicy 返回默认打分策略。
func DefaultPolicy() Policy {
	return Policy{
		PopularityWeight: 0.25,
		RatingWeight:     0.75,
		Dampening:        0.2,
		BoostBase:        2.0,
		PenaltyBase:      0.5,
		UnknownGenreBase: 2.0,
		ConfidenceFloor:  0.5,
		ConfidenceSpan:   0.5,
		Precision:        4,
		TopN:             25,
	}
}

// Validate 检查策略能否产生有意义的分数。
func (p Policy) Validate() error {
	if p.PopularityWeight < 0 || p.RatingWeight < 0 || p.PopularityWeight+p.RatingWeight == 0 {
		return fmt.Errorf("fusion weights must be non-negative and not both zero")
	}
	if p.BoostBase <= 0 || p.PenaltyBase <= 0 {
		return fmt.Errorf("boost and penalty bases must be positive")
	}
	if p.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", p.TopN)
	}
	return nil
}
