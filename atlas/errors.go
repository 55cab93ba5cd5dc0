package atlas

import "errors"

// ErrCancelled is returned by Generate when the caller's progress sink raised
// its cancel flag before generation finished. No OutputData is returned.
var ErrCancelled = errors.New("atlas: generation cancelled")

// ErrNoSprites is returned when every source image was skipped (failed to
// decode, or the source list was empty) and there is nothing to pack.
var ErrNoSprites = errors.New("atlas: no sprites survived preprocessing")

// ErrMaxTextureTooSmall is an internal failure: the packer cannot place even
// a single sprite within max_texture_size.
var ErrMaxTextureTooSmall = errors.New("atlas: max_texture_size too small to fit a single sprite")
