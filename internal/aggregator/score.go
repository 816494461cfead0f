package aggregator

import (
	"math"

	"devflow/internal/models"
)

const (
	scoreBaseline = 50
	scoreMin      = 0
	scoreMax      = 100
	sentimentGain = 200
	communityGain = 2
)

// ComputeScore maps a draft's sub-records to the composite score. It is pure
// and total: baseline 50, plus ten times a tenth of the BTC 24h change, plus
// 200 times the normalized sentiment score, plus twice the community average
// score, rounded to nearest and clamped to [0,100]. Missing numeric fields
// are zero values and contribute nothing.
func ComputeScore(draft *models.SnapshotDraft) int {
	raw := float64(scoreBaseline) +
		(draft.Crypto.BTCChange24/10)*10 +
		draft.News.SentimentScore*sentimentGain +
		draft.Community.AvgScore*communityGain

	score := int(math.Round(raw))
	if score < scoreMin {
		return scoreMin
	}
	if score > scoreMax {
		return scoreMax
	}
	return score
}
