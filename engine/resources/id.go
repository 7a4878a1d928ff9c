package resources

import (
	"fmt"
	"hash/fnv"
	"path"
	"strings"
)

// ID identifies a resource inside its cache. It is the 32-bit FNV-1a hash of the
// normalized asset id; collisions are accepted.
type ID uint32

// InvalidID marks an unset id.
const InvalidID ID = 0

// NormalizeAssetID brings an asset id into canonical form so that equivalent
// spellings of the same path hash to the same ID.
func NormalizeAssetID(assetID string) string {
	if assetID == "" {
		return ""
	}
	s := path.Clean(strings.ReplaceAll(assetID, "\\", "/"))
	s = strings.TrimPrefix(s, "./")
	if s == "." {
		return ""
	}
	return s
}

// IDOf computes the ID of an asset id. Empty ids map to InvalidID.
func IDOf(assetID string) ID {
	n := NormalizeAssetID(assetID)
	if n == "" {
		return InvalidID
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(n))
	return ID(h.Sum32())
}

func (id ID) String() string {
	return fmt.Sprintf("0x%08x", uint32(id))
}
