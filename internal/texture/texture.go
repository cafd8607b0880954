// Package texture decodes image assets and owns the GL textures made from
// them.
package texture

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/toxichemicals/GO/holycubes/internal/gles"
)

var (
	ErrAssetNotFound = errors.New("texture asset not found")
	ErrDecode        = errors.New("texture decode failed")
)

// Image is tightly packed 8-bit RGBA pixel data, row 0 first.
type Image struct {
	Pix           []byte
	Width, Height int
}

// Loader resolves an asset identifier to decoded pixels.
type Loader interface {
	Load(id string) (*Image, error)
}

// FSLoader decodes PNG and JPEG assets from a file system.
type FSLoader struct {
	FS fs.FS
}

// Load implements Loader.
func (l FSLoader) Load(id string) (*Image, error) {
	f, err := l.FS.Open(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrAssetNotFound, "%s", id)
		}
		return nil, errors.Wrapf(err, "opening %s", id)
	}
	defer f.Close()
	return Decode(id, f)
}

// Decode reads a PNG or JPEG image from r. id only labels errors.
func Decode(id string, r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", id, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image to packed RGBA.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Image{Pix: rgba.Pix, Width: b.Dx(), Height: b.Dy()}
}

// Store uploads textures and deletes them on Release. It is the only owner of
// the GL texture handles it creates.
type Store struct {
	ctx    gles.Context
	loader Loader
	log    *slog.Logger
	byID   map[string]gles.Texture
}

// NewStore returns a store that loads assets through loader.
func NewStore(ctx gles.Context, loader Loader, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{ctx: ctx, loader: loader, log: log, byID: make(map[string]gles.Texture)}
}

// Get returns the texture for id, loading and uploading it on first use.
func (s *Store) Get(id string) (gles.Texture, error) {
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	if s.loader == nil {
		return gles.Texture{}, errors.Wrapf(ErrAssetNotFound, "%s: no loader configured", id)
	}
	img, err := s.loader.Load(id)
	if err != nil {
		return gles.Texture{}, err
	}
	t, err := Upload(s.ctx, img)
	if err != nil {
		return gles.Texture{}, errors.Wrapf(err, "uploading %s", id)
	}
	s.byID[id] = t
	s.log.Info("texture loaded", "id", id, "width", img.Width, "height", img.Height)
	return t, nil
}

// Release deletes every texture the store created.
func (s *Store) Release() {
	for id, t := range s.byID {
		s.ctx.DeleteTexture(t)
		delete(s.byID, id)
	}
}

// Upload creates a 2D texture from img and drops img's pixel buffer once the
// driver has copied it. Power-of-two images repeat and get mipmaps. GL ES 2.0
// allows neither for other sizes, so those clamp to the edge and filter
// linearly without mipmaps.
func Upload(ctx gles.Context, img *Image) (gles.Texture, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) != 4*img.Width*img.Height {
		return gles.Texture{}, errors.Wrapf(ErrDecode, "bad pixel buffer %dx%d with %d bytes", img.Width, img.Height, len(img.Pix))
	}
	mipmapped := PowerOfTwo(img.Width) && PowerOfTwo(img.Height)

	t := ctx.CreateTexture()
	ctx.BindTexture(gles.TEXTURE_2D, t)

	wrap, minFilter := gles.Enum(gles.CLAMP_TO_EDGE), gles.Enum(gles.LINEAR)
	if mipmapped {
		wrap, minFilter = gles.REPEAT, gles.LINEAR_MIPMAP_LINEAR
	}
	ctx.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_WRAP_S, int(wrap))
	ctx.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_WRAP_T, int(wrap))
	ctx.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MIN_FILTER, int(minFilter))
	ctx.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MAG_FILTER, gles.LINEAR)

	ctx.TexImage2D(gles.TEXTURE_2D, 0, gles.RGBA, img.Width, img.Height, gles.RGBA, gles.UNSIGNED_BYTE, img.Pix)
	if mipmapped {
		ctx.GenerateMipmap(gles.TEXTURE_2D)
	}

	ctx.BindTexture(gles.TEXTURE_2D, gles.Texture{})
	img.Pix = nil

	if err := gles.CheckError(ctx, "TexImage2D"); err != nil {
		ctx.DeleteTexture(t)
		return gles.Texture{}, err
	}
	return t, nil
}

// PowerOfTwo reports whether n is a positive power of two.
func PowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }
