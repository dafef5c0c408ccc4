package paper

import (
	"image"
	"math/rand/v2"
)

// GrainAmplitude is the largest offset ApplyGrain adds or removes.
const GrainAmplitude = 5

// ApplyGrain shifts every pixel by one uniform offset in
// [-GrainAmplitude, GrainAmplitude]. The offset is drawn once per pixel,
// not once per channel: red, green and blue move together so the grain
// stays neutral grey. Each channel is clamped to [0, 255].
// Alpha is left alone.
func ApplyGrain(img *image.RGBA, rng *rand.Rand) {
	const span = 2*GrainAmplitude + 1

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			n := rng.IntN(span) - GrainAmplitude
			for c := 0; c < 3; c++ {
				row[i+c] = clampByte(int(row[i+c]) + n)
			}
		}
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
