package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tvzap/tvzap/filesystem"
	"github.com/tvzap/tvzap/log"
)

// ErrEmpty is returned when a channel file yields no playable channel.
var ErrEmpty = errors.New("no playable channels")

// Load reads a JSON array of channel records and builds a catalog from it.
// Records without a stream URL are skipped; missing ids default to the URL.
func Load(path string) (*Catalog, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel file: %w", err)
	}

	var raw []Channel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode channel file %s: %w", path, err)
	}

	playable := lo.FilterMap(raw, func(ch Channel, i int) (Channel, bool) {
		ch.URL = strings.TrimSpace(ch.URL)
		if ch.URL == "" {
			log.Warnf("skipping channel #%d (%q): empty url", i+1, ch.Name)
			return ch, false
		}
		if ch.ID == "" {
			ch.ID = ch.URL
		}
		return ch, true
	})

	if len(playable) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	log.Infof("loaded %d channels from %s", len(playable), path)
	return Build(playable), nil
}
