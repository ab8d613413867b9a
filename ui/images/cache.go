package images

import (
	"fmt"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ReviewCache keeps PNG renditions of reviewed photos keyed by path and
// display size, so retake/confirm round trips do not decode twice.
type ReviewCache struct {
	cache *lru.Cache[string, []byte]
}

// NewReviewCache returns a cache holding up to size renditions.
func NewReviewCache(size int) (*ReviewCache, error) {
	if size <= 0 {
		size = 8
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &ReviewCache{cache: c}, nil
}

// Load returns the PNG rendition of the image at path fitted to maxW x maxH.
func (c *ReviewCache) Load(path string, maxW, maxH int) ([]byte, error) {
	key := fmt.Sprintf("%s@%dx%d", path, maxW, maxH)
	if data, ok := c.cache.Get(key); ok {
		return data, nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	data := EncodePNG(FitHQ(img, maxW, maxH))
	if len(data) == 0 {
		return nil, fmt.Errorf("encode %s: empty output", path)
	}
	c.cache.Add(key, data)
	return data, nil
}

// Len returns the number of cached renditions.
func (c *ReviewCache) Len() int { return c.cache.Len() }

// Purge empties the cache.
func (c *ReviewCache) Purge() { c.cache.Purge() }
