// Package resume remembers the last watched channel of each channel file.
package resume

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/tvzap/tvzap/filesystem"
	"github.com/tvzap/tvzap/where"
)

// saved maps an absolute channel file path to a channel id.
type saved = map[string]string

func cacher() *gache.Cache[saved] {
	return gache.New[saved](&gache.Options{
		Path:       where.Resume(),
		FileSystem: &filesystem.GacheFs{},
	})
}

func load(c *gache.Cache[saved]) (saved, error) {
	cached, expired, err := c.Get()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(saved), nil
		}
		return nil, err
	}
	if expired || cached == nil {
		return make(saved), nil
	}
	return cached, nil
}

// Last returns the id of the channel last watched from the channel file at path.
func Last(path string) (mo.Option[string], error) {
	entries, err := load(cacher())
	if err != nil {
		return mo.None[string](), err
	}

	id, ok := entries[normalize(path)]
	if !ok || id == "" {
		return mo.None[string](), nil
	}
	return mo.Some(id), nil
}

// Save records id as the last watched channel of the channel file at path.
func Save(path, id string) error {
	c := cacher()
	entries, err := load(c)
	if err != nil {
		return err
	}

	entries[normalize(path)] = id
	return c.Set(entries)
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
