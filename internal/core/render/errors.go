package render

import "errors"

// Orchestrator lifecycle errors
var (
	ErrNotInitialized     = errors.New("renderer is not initialized")
	ErrAlreadyInitialized = errors.New("renderer is already initialized")
	ErrNoCamera           = errors.New("no camera set")

	errTextures3DDisabled = errors.New("3d textures are disabled")
)
