package core

import "math"

// Statistics is the aggregate view computed over a document in one pass.
//
// Items with status "no-incluir" are intentionally skipped work: they count
// towards the totals but not towards validity, pillar distributions or
// progress percentages.
type Statistics struct {
	TotalWeeks          int              `json:"total_semanas"`
	TotalContents       int              `json:"total_contenidos"`
	ValidContents       int              `json:"contenidos_validos"`
	AveragePerWeek      float64          `json:"promedio_contenidos_semana"`
	ByStatus            map[string]int   `json:"distribucion_estados"`
	ByPillar            map[string]int   `json:"distribucion_pilares"`
	CompletedPercentage float64          `json:"porcentaje_completado"`
	Weeks               []WeekStatistics `json:"semanas"`
}

// WeekStatistics is the per-week breakdown inside Statistics.
type WeekStatistics struct {
	Number              int     `json:"numero"`
	Dates               string  `json:"fechas"`
	Topic               string  `json:"tema"`
	Total               int     `json:"total"`
	Valid               int     `json:"validos"`
	Completed           int     `json:"completados"`
	InProgress          int     `json:"en_progreso"`
	Excluded            int     `json:"excluidos"`
	CompletedPercentage float64 `json:"porcentaje_completado"`
}

// ComputeStatistics walks every week and item once and derives the counts.
func ComputeStatistics(doc Document) Statistics {
	stats := Statistics{
		TotalWeeks: len(doc.Weeks),
		ByStatus:   make(map[string]int, len(KnownStatuses)+1),
		ByPillar:   make(map[string]int, len(KnownPillars)+1),
		Weeks:      make([]WeekStatistics, 0, len(doc.Weeks)),
	}

	// Known buckets are always present, even at zero.
	for _, s := range KnownStatuses {
		stats.ByStatus[s] = 0
	}
	stats.ByStatus[StatusUnset] = 0
	for _, p := range KnownPillars {
		stats.ByPillar[p] = 0
	}
	stats.ByPillar[PillarUntagged] = 0

	completed := 0

	for _, week := range doc.Weeks {
		ws := WeekStatistics{
			Number: week.Number,
			Dates:  week.Dates,
			Topic:  week.Topic,
			Total:  len(week.Contents),
		}
		stats.TotalContents += len(week.Contents)

		for _, item := range week.Contents {
			bucket := item.Status
			if bucket == "" {
				bucket = StatusUnset
			}
			// Unknown status strings keep their own bucket.
			stats.ByStatus[bucket]++

			if item.Excluded() {
				ws.Excluded++
				continue
			}

			ws.Valid++
			stats.ValidContents++

			switch item.Status {
			case StatusCompleted:
				completed++
				ws.Completed++
			case StatusInProgress:
				ws.InProgress++
			}

			if len(item.Pillars) == 0 {
				stats.ByPillar[PillarUntagged]++
			} else {
				for _, p := range item.Pillars {
					stats.ByPillar[p]++
				}
			}
		}

		ws.CompletedPercentage = percentage(ws.Completed, ws.Valid)
		stats.Weeks = append(stats.Weeks, ws)
	}

	stats.CompletedPercentage = percentage(completed, stats.ValidContents)
	if stats.TotalWeeks > 0 {
		stats.AveragePerWeek = round1(float64(stats.TotalContents) / float64(stats.TotalWeeks))
	}

	return stats
}

// percentage returns part over whole as a percentage rounded to one
// decimal, and 0 when the denominator is zero.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
