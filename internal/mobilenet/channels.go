package mobilenet

import "math"

// DefaultDivisor is the default channel rounding granularity.
const DefaultDivisor = 8

// RoundChannels maps a width-scaled channel count to a multiple of divisor.
//
// raw is rounded to the nearest multiple of divisor and floored at
// minChannels (divisor when minChannels <= 0). If that undershoots raw by
// more than 10%, one more divisor is added.
//
//	RoundChannels(32*1.0, 8, 0)  == 32
//	RoundChannels(32*0.35, 8, 0) == 16 // 8 would lose more than 10%
func RoundChannels(raw float64, divisor, minChannels int) int {
	if minChannels <= 0 {
		minChannels = divisor
	}
	candidate := int(math.Floor((raw+float64(divisor)/2)/float64(divisor))) * divisor
	candidate = max(minChannels, candidate)
	if float64(candidate) < 0.9*raw {
		candidate += divisor
	}
	return candidate
}

// MakeDivisible is RoundChannels with the default floor.
func MakeDivisible(raw float64, divisor int) int {
	return RoundChannels(raw, divisor, 0)
}
