package pipeline

import "docintel/internal/config"

// Overrides carries optional per-request replacements for individual
// extraction and validation settings. Nil fields keep the configured
// defaults, so a caller tuning one knob does not have to restate the rest.
type Overrides struct {
	LineHeightFactor *float64 `json:"line_height_factor,omitempty"`
	BlockBreakFactor *float64 `json:"block_break_factor,omitempty"`
	IndentationJump  *float64 `json:"indentation_jump,omitempty"`
	KeywordWeight    *float64 `json:"keyword_weight,omitempty"`
	PatternWeight    *float64 `json:"pattern_weight,omitempty"`
	PositionalWeight *float64 `json:"positional_weight,omitempty"`
	SearchRadius     *float64 `json:"search_radius,omitempty"`
	LineItemMinScore *float64 `json:"line_item_min_score,omitempty"`
	Epsilon          *float64 `json:"epsilon,omitempty"`
	Percent          *float64 `json:"percent,omitempty"`
}

func (o *Overrides) apply(ext config.ExtractionConfig, val config.ValidationConfig) (config.ExtractionConfig, config.ValidationConfig) {
	if o == nil {
		return ext, val
	}
	setIf(&ext.LineHeightFactor, o.LineHeightFactor)
	setIf(&ext.BlockBreakFactor, o.BlockBreakFactor)
	setIf(&ext.IndentationJump, o.IndentationJump)
	setIf(&ext.KeywordWeight, o.KeywordWeight)
	setIf(&ext.PatternWeight, o.PatternWeight)
	setIf(&ext.PositionalWeight, o.PositionalWeight)
	setIf(&ext.SearchRadius, o.SearchRadius)
	setIf(&ext.LineItemMinScore, o.LineItemMinScore)
	setIf(&val.Epsilon, o.Epsilon)
	setIf(&val.Percent, o.Percent)
	return ext, val
}

func setIf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
