package audio

import (
	"os"
	"path/filepath"

	"github.com/alexanderramin/doone/internal/domain"
)

// Sound is one ambient-sound catalog entry.
type Sound struct {
	ID    string
	Label string
	Free  bool
}

// builtinSounds is the catalog order shown to the user. The silence entry
// is always first.
var builtinSounds = []Sound{
	{ID: domain.SoundNone, Label: "None", Free: true},
	{ID: "rain", Label: "Rain", Free: true},
	{ID: "white", Label: "White Noise", Free: true},
	{ID: "birds", Label: "Birds", Free: false},
	{ID: "river", Label: "River", Free: false},
	{ID: "ambient", Label: "Ambient", Free: false},
	{ID: "gong", Label: "Gong", Free: false},
}

// Catalog maps sound identifiers to audio files under a sounds directory.
// An identifier resolves to <dir>/<id>.mp3 or <dir>/<id>.wav, whichever
// exists.
type Catalog struct {
	dir string
}

// NewCatalog creates a catalog rooted at the given directory.
func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Sounds lists all catalog entries, silence included.
func (c *Catalog) Sounds() []Sound {
	out := make([]Sound, len(builtinSounds))
	copy(out, builtinSounds)
	return out
}

// Known reports whether the identifier names a catalog entry.
func (c *Catalog) Known(id string) bool {
	for _, s := range builtinSounds {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Label returns the display label for an identifier, or the identifier
// itself when unknown.
func (c *Catalog) Label(id string) string {
	for _, s := range builtinSounds {
		if s.ID == id {
			return s.Label
		}
	}
	return id
}

// Resolve maps an identifier to a playable file path. Silence and unknown
// identifiers resolve to ok=false.
func (c *Catalog) Resolve(id string) (path string, ok bool) {
	if id == domain.SoundNone || !c.Known(id) {
		return "", false
	}
	for _, ext := range []string{".mp3", ".wav"} {
		candidate := filepath.Join(c.dir, id+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
