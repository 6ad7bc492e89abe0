package feedback

import "time"

// IdleColor returns the ambient color elapsed into the idle animation.
// The animation moves through palette in order, spending leg on each
// transition, and wraps from the last color back to the first.
func IdleColor(palette []Color, leg, elapsed time.Duration) Color {
	switch len(palette) {
	case 0:
		return Off
	case 1:
		return palette[0]
	}
	if leg <= 0 {
		return palette[0]
	}
	if elapsed < 0 {
		elapsed = 0
	}

	cycle := leg * time.Duration(len(palette))
	pos := elapsed % cycle
	i := int(pos / leg)
	frac := float64(pos%leg) / float64(leg)
	return Lerp(palette[i], palette[(i+1)%len(palette)], frac)
}

// blinkColor returns c during even half-periods and Off during odd ones,
// starting "on" at elapsed zero.
func blinkColor(c Color, interval, elapsed time.Duration) Color {
	if interval <= 0 || elapsed < 0 {
		return c
	}
	if (elapsed/interval)%2 == 0 {
		return c
	}
	return Off
}
