package columns

// PerMinute computes the shared per-minute derivation of §3(b):
// total / (duration_secs / 60), returning nil when durationSecs is 0.
func PerMinute(total float64, durationSecs int64) *float64 {
	if durationSecs == 0 {
		return nil
	}
	v := total / (float64(durationSecs) / 60.0)
	return &v
}

// Mean returns the arithmetic mean of vals, or 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// MeanOptional returns the mean of the present values among vals,
// returning nil if none are present. Used for C6's four upstream
// advantage columns, which are materialised as all-nil before
// aggregation when absent from every input row (§9).
func MeanOptional(vals []*float64) *float64 {
	var present []float64
	for _, v := range vals {
		if v != nil {
			present = append(present, *v)
		}
	}
	if len(present) == 0 {
		return nil
	}
	m := Mean(present)
	return &m
}
