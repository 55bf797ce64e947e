package netplan

import (
	"fmt"
	"path/filepath"

	"github.com/hostplan/hostplan/pkg/util"
)

// Load enumerates the configuration files in dir in lexicographic
// filename order and folds them into one merged document; later files
// override earlier ones. An empty directory yields ErrConfigNotFound.
//
// Load runs at the start of every operation - there is no cache, so the
// result always reflects the on-disk state at call time.
func Load(dir string) (*Document, error) {
	files, err := util.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", dir, err)
	}

	var doc *Document
	for _, name := range files {
		parsed, err := ParseFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if doc == nil {
			doc = parsed
		} else {
			doc.Merge(parsed)
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%s: %w", dir, util.ErrConfigNotFound)
	}

	util.Debugf("loaded %d netplan file(s) from %s", len(files), dir)
	return doc, nil
}
