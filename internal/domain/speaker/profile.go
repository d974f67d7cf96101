package speaker

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sync"

	platformerrors "mars-assistant-go/internal/platform/errors"
)

// Profile is the enrolled user's reference embedding, stored on disk as
// raw little-endian float32 values. The file is read once and memoized.
type Profile struct {
	path       string
	dimensions int

	mu        sync.Mutex
	embedding []float32
	loaded    bool
}

// NewProfile points at a profile file without reading it yet.
func NewProfile(path string, dimensions int) *Profile {
	return &Profile{path: path, dimensions: dimensions}
}

// Path reports the backing file location.
func (p *Profile) Path() string { return p.path }

// Embedding returns the reference embedding, loading it on first use.
// A missing file and a malformed file are distinct failures: the caller
// may treat the former as "not enrolled" and the latter as fatal.
func (p *Profile) Embedding() ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.embedding, nil
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, platformerrors.Wrap(platformerrors.KindSpeaker, "profile.load",
				"no enrolled voice profile at "+p.path, err)
		}
		return nil, platformerrors.Wrap(platformerrors.KindSpeaker, "profile.load",
			"reading voice profile", err)
	}

	embedding, err := decodeEmbedding(raw, p.dimensions)
	if err != nil {
		return nil, err
	}

	p.embedding = embedding
	p.loaded = true
	return p.embedding, nil
}

// Save writes the embedding and replaces the memoized copy, creating the
// parent directory if needed. Used by enrollment.
func (p *Profile) Save(embedding []float32) error {
	if p.dimensions > 0 && len(embedding) != p.dimensions {
		return platformerrors.New(platformerrors.KindSpeaker, "profile.save",
			"embedding dimension mismatch")
	}

	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return platformerrors.Wrap(platformerrors.KindSpeaker, "profile.save",
				"creating profile directory", err)
		}
	}

	buf := make([]byte, 4*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	if err := os.WriteFile(p.path, buf, 0o644); err != nil {
		return platformerrors.Wrap(platformerrors.KindSpeaker, "profile.save",
			"writing voice profile", err)
	}

	p.mu.Lock()
	p.embedding = append([]float32(nil), embedding...)
	p.loaded = true
	p.mu.Unlock()

	return nil
}

func decodeEmbedding(raw []byte, dimensions int) ([]float32, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, platformerrors.New(platformerrors.KindSpeaker, "profile.load",
			"voice profile is not a float32 vector")
	}

	embedding := make([]float32, len(raw)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}

	if dimensions > 0 && len(embedding) != dimensions {
		return nil, platformerrors.New(platformerrors.KindSpeaker, "profile.load",
			"voice profile dimension mismatch")
	}

	return embedding, nil
}
