package domain

// FeePerMeter is the flat rate charged per meter of stand length.
const FeePerMeter = 7.0

// ComputeFee derives the total fee from the stand length. The fee never
// depends on depth and is recomputed server-side on every write that
// touches the length.
func ComputeFee(standLength float64) float64 {
	return standLength * FeePerMeter
}
