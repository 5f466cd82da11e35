package colour

// DeltaE2000 returns the CIEDE2000 colour difference between x and y in
// standard ΔE units. It is symmetric and zero for identical inputs.
func DeltaE2000(x, y Lab) float64 {
	// go-colorful reports the distance scaled down by 100.
	return x.Colorful().DistanceCIEDE2000(y.Colorful()) * colorfulScale
}

