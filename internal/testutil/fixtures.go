package testutil

import (
	"github.com/thruflo/pixl/internal/sprite"
)

// Colors used by the fixtures.
var (
	Red       = sprite.RGBA(255, 0, 0, 255)
	Green     = sprite.RGBA(0, 255, 0, 255)
	Blue      = sprite.RGBA(0, 0, 255, 255)
	HalfBlue  = sprite.RGBA(0, 0, 255, 128)
	Checkered = sprite.RGBA(40, 40, 40, 255)
)

// SolidLayer returns a visible layer filled with p.
func SolidLayer(name string, width, height int, p sprite.Pixel) *sprite.Layer {
	l := sprite.NewLayer(name, width, height)
	l.Pixels.Fill(p)
	return l
}

// SolidFrame returns a frame whose single layer is filled with p.
func SolidFrame(name string, width, height int, p sprite.Pixel) *sprite.Frame {
	f := sprite.NewFrame(name, width, height)
	f.Layers[0].Pixels.Fill(p)
	return f
}

// SampleSprite returns a 4x4 sprite with three frames:
//
//   - frame 0: solid red
//   - frame 1: solid red under a half-opacity blue layer (active)
//   - frame 2: transparent except a green checker
//
// Returns a new sprite each time to prevent test interference.
func SampleSprite() *sprite.Sprite {
	s := sprite.New("sample", 4, 4)
	s.Frames[0] = SolidFrame(sprite.FrameName(0), 4, 4, Red)

	f1 := SolidFrame(sprite.FrameName(1), 4, 4, Red)
	top := SolidLayer("Overlay", 4, 4, Blue)
	top.Opacity = 0.5
	f1.Layers = append(f1.Layers, top)
	f1.ActiveLayerIndex = 1

	f2 := sprite.NewFrame(sprite.FrameName(2), 4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 0 {
				f2.Layers[0].Pixels.Set(x, y, Green)
			}
		}
	}

	s.Frames = append(s.Frames, f1, f2)
	return s
}

// SampleSpriteJSON is a stored sprite document with every kind of damage
// repair handles: a frame without layers, a short pixel row, an out of
// range active layer index and a layer with a bogus opacity.
const SampleSpriteJSON = `{
  "id": "damaged",
  "name": "damaged",
  "width": 2,
  "height": 2,
  "frames": [
    {"id": "f1", "name": "Frame 1", "width": 2, "height": 2, "activeLayerIndex": 7,
     "layers": [{"id": "l1", "name": "Background", "visible": true, "opacity": 3,
                 "pixels": [[[255,0,0,255]], [[0,0,0,0],[0,0,0,0]]]}]},
    {"id": "f2", "name": "Frame 2", "width": 2, "height": 2, "layers": []}
  ]
}`
