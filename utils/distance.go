package utils

const (
	AtStopMeters      = 50.0
	ApproachingMeters = 300.0
)

// PresentableDistance formats the remaining along-route distance for display
func PresentableDistance(distKM float64) string {
	m := distKM * 1000
	if m < AtStopMeters {
		return "at stop"
	}
	if m < ApproachingMeters {
		return "approaching"
	}
	return FormatKM(distKM)
}

// AtStop reports whether the observer is within AtStopMeters of the call
func AtStop(distKM float64) bool {
	return distKM*1000 < AtStopMeters
}
