package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestFlags(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		has  uint32
		not  uint32
	}{
		{"windowed", Config{}, sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE, sdl.WINDOW_FULLSCREEN_DESKTOP | sdl.WINDOW_ALLOW_HIGHDPI},
		{"fullscreen", Config{Fullscreen: true}, sdl.WINDOW_FULLSCREEN_DESKTOP, sdl.WINDOW_ALLOW_HIGHDPI},
		{"high dpi", Config{HighDPI: true}, sdl.WINDOW_ALLOW_HIGHDPI, sdl.WINDOW_FULLSCREEN_DESKTOP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flags(tt.cfg)
			if got&tt.has != tt.has {
				t.Errorf("Flags() = 0x%x, missing 0x%x", got, tt.has)
			}
			if got&tt.not != 0 {
				t.Errorf("Flags() = 0x%x, unexpected 0x%x", got, got&tt.not)
			}
		})
	}
}
