package entity

// TimeWindow is a closed interval of video presentation time, in seconds.
type TimeWindow struct {
	Start float64
	End   float64
}

// FramePredicate describes the frames one decoder invocation must emit:
// exactly one frame per window, downscaled to Width with the aspect
// ratio preserved. Windows are ascending and non-identical.
type FramePredicate struct {
	Windows []TimeWindow
	Width   int
}
