package resource

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind is the asset type behind a handle.
type Kind uint8

const (
	KindModel Kind = iota
	KindTexture2D
	KindTexture3D
	KindFont
	KindParticleSystem
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindTexture2D:
		return "texture2d"
	case KindTexture3D:
		return "texture3d"
	case KindFont:
		return "font"
	case KindParticleSystem:
		return "particle-system"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Handle is an opaque reference to a pool-owned asset. It stays valid until
// the asset is released or its scope is torn down. IDs are never reused.
type Handle struct {
	ID         uuid.UUID
	Scope      Scope
	Kind       Kind
	Generation uint64
}

func (h Handle) IsZero() bool { return h.ID == uuid.Nil }

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(none)"
	}
	return fmt.Sprintf("%s/%s#%d/%s", h.Scope, h.Kind, h.Generation, h.ID)
}
