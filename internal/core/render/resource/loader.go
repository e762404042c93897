package resource

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/pkg/concurrent"
)

// DecodeImage reads and decodes an image file. PNG, JPEG, BMP and TIFF are
// recognised.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// LoadTexture2D loads the image at path into scope. Loading the same path
// twice into a live scope returns the first handle.
func (r *Registry) LoadTexture2D(scope Scope, path string, params TextureParams) (Handle, error) {
	p, err := r.Pool(scope)
	if err != nil {
		return Handle{}, err
	}
	if h, ok := p.cachedTexture(path); ok {
		return h, nil
	}
	img, err := DecodeImage(path)
	if err != nil {
		return Handle{}, p.creationError(KindTexture2D, path, err)
	}
	params.Image = img
	return p.newTextureForPath(path, params)
}

// LoadTextures decodes every path in parallel, then uploads the results one by
// one on the calling goroutine, so the pool is only ever mutated from there.
// Paths already cached in the scope are not decoded again.
func (r *Registry) LoadTextures(ctx context.Context, scope Scope, paths []string, workers int) ([]Handle, error) {
	p, err := r.Pool(scope)
	if err != nil {
		return nil, err
	}

	type decoded struct {
		img    image.Image
		cached Handle
	}
	results, err := concurrent.Map(ctx, paths, workers, func(_ context.Context, path string) (decoded, error) {
		if h, ok := p.cachedTexture(path); ok {
			return decoded{cached: h}, nil
		}
		img, err := DecodeImage(path)
		if err != nil {
			return decoded{}, err
		}
		return decoded{img: img}, nil
	})
	if err != nil {
		return nil, &ResourceCreationError{Scope: scope, Kind: KindTexture2D, Label: "batch", Err: err}
	}

	handles := make([]Handle, len(paths))
	for i, res := range results {
		if !res.cached.IsZero() {
			handles[i] = res.cached
			continue
		}
		if h, ok := p.cachedTexture(paths[i]); ok {
			handles[i] = h
			continue
		}
		h, err := p.newTextureForPath(paths[i], TextureParams{Image: res.img})
		if err != nil {
			return handles[:i], err
		}
		handles[i] = h
	}
	r.log.Debug("textures loaded", log.Stringer("scope", scope), log.Int("count", len(handles)))
	return handles, nil
}
