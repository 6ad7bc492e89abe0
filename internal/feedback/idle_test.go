package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdleColor_HitsPaletteAtLegBoundaries(t *testing.T) {
	palette := []Color{LogoBlue, LogoTurquoise, White}
	leg := 3 * time.Second

	assert.Equal(t, LogoBlue, IdleColor(palette, leg, 0))
	assert.Equal(t, LogoTurquoise, IdleColor(palette, leg, leg))
	assert.Equal(t, White, IdleColor(palette, leg, 2*leg))
	assert.Equal(t, LogoBlue, IdleColor(palette, leg, 3*leg), "animation loops")
	assert.Equal(t, LogoTurquoise, IdleColor(palette, leg, 4*leg))
}

func TestIdleColor_InterpolatesMidLeg(t *testing.T) {
	palette := []Color{{R: 0, G: 0, B: 0}, {R: 200, G: 100, B: 50}}
	got := IdleColor(palette, 2*time.Second, time.Second)
	assert.Equal(t, Color{R: 100, G: 50, B: 25}, got)
}

func TestIdleColor_IsContinuous(t *testing.T) {
	palette := []Color{LogoBlue, LogoTurquoise, White}
	leg := 3 * time.Second
	step := 10 * time.Millisecond

	// 255 levels over one leg: at most ceil(255*step/leg) plus rounding
	const maxJump = 2

	prev := IdleColor(palette, leg, 0)
	for elapsed := step; elapsed <= 2*3*leg; elapsed += step {
		cur := IdleColor(palette, leg, elapsed)
		assert.LessOrEqual(t, absDiff(prev.R, cur.R), maxJump, "R jump at %v", elapsed)
		assert.LessOrEqual(t, absDiff(prev.G, cur.G), maxJump, "G jump at %v", elapsed)
		assert.LessOrEqual(t, absDiff(prev.B, cur.B), maxJump, "B jump at %v", elapsed)
		prev = cur
	}
}

func TestIdleColor_DegeneratePalettes(t *testing.T) {
	assert.Equal(t, Off, IdleColor(nil, time.Second, 5*time.Second))
	assert.Equal(t, White, IdleColor([]Color{White}, time.Second, 5*time.Second))
	assert.Equal(t, LogoBlue, IdleColor([]Color{LogoBlue, White}, 0, 5*time.Second))
	assert.Equal(t, LogoBlue, IdleColor([]Color{LogoBlue, White}, time.Second, -time.Second))
}

func TestBlinkColor(t *testing.T) {
	iv := 300 * time.Millisecond
	assert.Equal(t, Red, blinkColor(Red, iv, 0))
	assert.Equal(t, Red, blinkColor(Red, iv, 299*time.Millisecond))
	assert.Equal(t, Off, blinkColor(Red, iv, 300*time.Millisecond))
	assert.Equal(t, Off, blinkColor(Red, iv, 599*time.Millisecond))
	assert.Equal(t, Red, blinkColor(Red, iv, 600*time.Millisecond))
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
