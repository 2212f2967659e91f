package sprite

import (
	"errors"
	"fmt"
)

// ValidationError describes the first invariant a frame or sprite violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ValidateFrame checks the frame invariants against the given size without
// changing anything.
func ValidateFrame(f *Frame, width, height int) error {
	if f == nil {
		return ValidationError{Field: "frame", Message: "is null"}
	}
	if f.Width != width || f.Height != height {
		return ValidationError{Field: "frame.size", Message: fmt.Sprintf("%dx%d, want %dx%d", f.Width, f.Height, width, height)}
	}
	if len(f.Layers) == 0 {
		return ValidationError{Field: "frame.layers", Message: "must hold at least one layer"}
	}
	if f.ActiveLayerIndex < 0 || f.ActiveLayerIndex >= len(f.Layers) {
		return ValidationError{Field: "frame.activeLayerIndex", Message: fmt.Sprintf("%d out of range", f.ActiveLayerIndex)}
	}
	for i, l := range f.Layers {
		field := fmt.Sprintf("frame.layers[%d]", i)
		if l == nil {
			return ValidationError{Field: field, Message: "is null"}
		}
		if l.Opacity < 0 || l.Opacity > 1 || l.Opacity != l.Opacity {
			return ValidationError{Field: field + ".opacity", Message: fmt.Sprintf("%g outside [0,1]", l.Opacity)}
		}
		if l.BlendMode != BlendNormal {
			return ValidationError{Field: field + ".blendMode", Message: fmt.Sprintf("unsupported %q", l.BlendMode)}
		}
		if !l.Pixels.HasSize(width, height) {
			return ValidationError{Field: field + ".pixels", Message: fmt.Sprintf("not %dx%d", width, height)}
		}
	}
	return nil
}

// ValidateSprite checks the sprite invariants and every frame.
func ValidateSprite(s *Sprite) error {
	if s == nil {
		return ValidationError{Field: "sprite", Message: "is null"}
	}
	if s.Width <= 0 || s.Height <= 0 {
		return ValidationError{Field: "sprite.size", Message: fmt.Sprintf("%dx%d is not positive", s.Width, s.Height)}
	}
	if len(s.Frames) == 0 {
		return ValidationError{Field: "sprite.frames", Message: "must hold at least one frame"}
	}
	for i, f := range s.Frames {
		if err := ValidateFrame(f, s.Width, s.Height); err != nil {
			ve := err.(ValidationError)
			ve.Field = fmt.Sprintf("sprite.frames[%d].%s", i, ve.Field)
			return ve
		}
	}
	return nil
}
