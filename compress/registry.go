package compress

import (
	"github.com/lyketo/lyketo/errs"
	"github.com/lyketo/lyketo/format"
)

// Registry is an insertion-ordered mapping from FourCC to Codec with an
// optional forced preference.
//
// The registry fails closed: lookups for unknown tags report absence rather
// than falling back to a default, and choosing from an empty registry is an
// error. Configure once at startup; mutation after codec instances have been
// handed out is unsupported.
type Registry struct {
	codecs map[format.FourCC]Codec
	order  []format.FourCC
	forced format.FourCC
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[format.FourCC]Codec),
	}
}

// Register inserts a codec under fc, replacing any previous entry with the
// same tag without disturbing its insertion position. When the codec's own
// FourCC differs from fc it is retagged so container headers stay coherent.
func (r *Registry) Register(fc format.FourCC, c Codec) {
	if _, ok := r.codecs[fc]; !ok {
		r.order = append(r.order, fc)
	}

	r.codecs[fc] = retag(c, fc)
}

// Force installs fc as the preferred encoder. Unknown tags are a no-op.
func (r *Registry) Force(fc format.FourCC) {
	if _, ok := r.codecs[fc]; ok {
		r.forced = fc
	}
}

// Rekey moves the entry registered under old to new, preserving its
// insertion position and retagging the codec. Unknown old tags are a no-op.
func (r *Registry) Rekey(old, new format.FourCC) {
	c, ok := r.codecs[old]
	if !ok || old == new {
		return
	}

	delete(r.codecs, old)
	r.codecs[new] = retag(c, new)

	for i, fc := range r.order {
		if fc == old {
			r.order[i] = new
			break
		}
	}

	if r.forced == old {
		r.forced = new
	}
}

// Find returns the codec registered under fc.
func (r *Registry) Find(fc format.FourCC) (Codec, bool) {
	c, ok := r.codecs[fc]

	return c, ok
}

// Choose returns the encoder to use: the forced entry if one is installed,
// otherwise the first insertion. It fails only when the registry is empty.
func (r *Registry) Choose() (format.FourCC, Codec, error) {
	if len(r.order) == 0 {
		return 0, nil, errs.ErrInvalidAlgorithm
	}

	if c, ok := r.codecs[r.forced]; ok {
		return r.forced, c, nil
	}

	fc := r.order[0]

	return fc, r.codecs[fc], nil
}

// retagged overrides the FourCC a codec reports, leaving the algorithm
// untouched. Containers in the wild ship with re-tagged algorithms as a
// light obfuscation, so the registry supports the same.
type retagged struct {
	Codec
	fc format.FourCC
}

func (t retagged) FourCC() format.FourCC {
	return t.fc
}

func retag(c Codec, fc format.FourCC) Codec {
	if c.FourCC() == fc {
		return c
	}

	if inner, ok := c.(retagged); ok {
		c = inner.Codec
	}

	return retagged{Codec: c, fc: fc}
}
