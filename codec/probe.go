// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"os"
	"time"

	"github.com/ik5/audgrid/audio"
	"github.com/patrickmn/go-cache"
)

// Probe is what a media listing needs to know about a file without decoding it.
type Probe struct {
	Path     string
	Format   string
	Params   audio.StreamParams
	Duration float64
	Packets  int
}

type probeEntry struct {
	size    int64
	modTime time.Time
	probe   Probe
}

// ProbeCache remembers stream parameters per file. An entry is reused while
// the file's size and modification time are unchanged.
type ProbeCache struct {
	parser *Parser
	cache  *cache.Cache
}

func NewProbeCache(parser *Parser, ttl time.Duration) *ProbeCache {
	if parser == nil {
		parser = defaultParser
	}

	return &ProbeCache{
		parser: parser,
		cache:  cache.New(ttl, ttl*2),
	}
}

// Probe returns the parameters of path, parsing it only on a cache miss.
func (c *ProbeCache) Probe(path string) (Probe, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Probe{}, decodeError(path, err)
	}

	if v, ok := c.cache.Get(path); ok {
		e := v.(probeEntry)
		if e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
			return e.probe, nil
		}
	}

	s, err := c.parser.Parse(path)
	if err != nil {
		return Probe{}, err
	}
	defer s.Decoder.Close()

	p := Probe{
		Path:     path,
		Format:   s.Format,
		Params:   s.Params,
		Duration: s.Duration,
		Packets:  len(s.Packets),
	}
	c.cache.Set(path, probeEntry{size: info.Size(), modTime: info.ModTime(), probe: p}, cache.DefaultExpiration)

	return p, nil
}

// Forget drops the cached entry of path.
func (c *ProbeCache) Forget(path string) {
	c.cache.Delete(path)
}

// Len is the number of cached entries, expired ones included until cleanup.
func (c *ProbeCache) Len() int {
	return c.cache.ItemCount()
}
