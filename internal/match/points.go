package match

import "sort"

// Point deltas applied per result when auto-scoring is enabled.
const (
	PointsPerVictory = 10
	PointsPerDefeat  = -7
)

// pointsDelta returns the score change contributed by a result.
func pointsDelta(r Result) int {
	switch r {
	case ResultVictory:
		return PointsPerVictory
	case ResultDefeat:
		return PointsPerDefeat
	default:
		return 0
	}
}

// RecalculatePoints rewrites the Points field of every auto-scored record
// as a cumulative total in chronological order: the previous record's total
// plus +10 for a victory, -7 for a defeat, unchanged otherwise. Records
// with Auto=false keep their manual value, and that value becomes the
// running total for subsequent records. The input slice is returned sorted
// chronologically; records with unparsable timestamps keep their relative
// input order at the end.
func RecalculatePoints(records []Record) []Record {
	out := CloneAll(records)
	sortChronological(out)

	running := 0
	for i := range out {
		if out[i].AutoPoints() {
			running += pointsDelta(out[i].Result)
			out[i].Points = IntPtr(running)
		} else {
			running = out[i].PointsValue()
		}
	}
	return out
}

// PointsProgression is one step of the cumulative points series used by
// the score chart.
type PointsProgression struct {
	MatchNumber      int    `json:"matchNumber"`
	CumulativePoints int    `json:"cumulativePoints"`
	Result           Result `json:"result"`
}

// PointsSeries computes the cumulative points series for a collection,
// oldest match first. Every record contributes its result delta regardless
// of the stored Points value, mirroring the score chart.
func PointsSeries(records []Record) []PointsProgression {
	sorted := CloneAll(records)
	sortChronological(sorted)

	series := make([]PointsProgression, 0, len(sorted))
	total := 0
	for i, r := range sorted {
		total += pointsDelta(r.Result)
		series = append(series, PointsProgression{
			MatchNumber:      i + 1,
			CumulativePoints: total,
			Result:           r.Result,
		})
	}
	return series
}

// sortChronological orders records oldest-first by timestamp. Unparsable
// timestamps sort after all valid ones, preserving input order among
// themselves.
func sortChronological(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, erri := ParseTimestamp(records[i].Timestamp)
		tj, errj := ParseTimestamp(records[j].Timestamp)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.Before(tj)
	})
}
