package core

import (
	"fmt"
	"time"
)

// Report composes the statistics with the document metadata and a small
// rule-based recommendation list for the reader.
type Report struct {
	Title           string     `json:"titulo"`
	Period          string     `json:"periodo"`
	Version         string     `json:"version,omitempty"`
	GeneratedAt     string     `json:"generado"`
	Statistics      Statistics `json:"estadisticas"`
	Recommendations []string   `json:"recomendaciones"`
}

// Recommendation thresholds.
const (
	lowProgressBelow       = 30.0
	excellentProgressAbove = 80.0
	manyExcludedAbove      = 5
	pillarImbalanceAbove   = 10
)

// BuildReport derives a Report from the document at the given time.
func BuildReport(doc Document, now time.Time) Report {
	stats := ComputeStatistics(doc)

	return Report{
		Title:           doc.Title,
		Period:          doc.Period,
		Version:         doc.Version,
		GeneratedAt:     now.Format(TimeLayout),
		Statistics:      stats,
		Recommendations: recommendations(stats),
	}
}

func recommendations(stats Statistics) []string {
	recs := []string{}

	if stats.CompletedPercentage < lowProgressBelow {
		recs = append(recs, fmt.Sprintf(
			"Progreso bajo (%.1f%%): revisar contenidos pendientes y priorizar", stats.CompletedPercentage))
	}
	if stats.CompletedPercentage > excellentProgressAbove {
		recs = append(recs, fmt.Sprintf(
			"Excelente progreso (%.1f%%): la planificacion va muy bien", stats.CompletedPercentage))
	}

	excluded := stats.TotalContents - stats.ValidContents
	if excluded > manyExcludedAbove {
		recs = append(recs, fmt.Sprintf(
			"Hay %d contenidos excluidos: considerar depurar la agenda", excluded))
	}

	if maxP, minP, ok := pillarSpread(stats.ByPillar); ok && maxP-minP > pillarImbalanceAbove {
		recs = append(recs, fmt.Sprintf(
			"Desbalance entre pilares (max %d, min %d): distribuir mejor los contenidos", maxP, minP))
	}

	return recs
}

// pillarSpread returns the largest pillar count and the smallest nonzero
// pillar count. The untagged bucket does not participate. ok is false when
// every pillar is at zero.
func pillarSpread(byPillar map[string]int) (maxCount, minNonzero int, ok bool) {
	for _, p := range KnownPillars {
		n := byPillar[p]
		if n > maxCount {
			maxCount = n
		}
		if n > 0 && (!ok || n < minNonzero) {
			minNonzero = n
			ok = true
		}
	}
	return maxCount, minNonzero, ok
}
