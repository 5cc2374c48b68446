package storage

import (
	"fmt"
	"path"
	"strings"
	"sync/atomic"
	"time"
)

// Keys builds deterministic, collision-resistant object keys. Generated-image
// keys combine the owning identifier, a millisecond timestamp, and a
// process-wide sequence number, so two uploads landing in the same
// millisecond still get distinct keys.
type Keys struct {
	seq atomic.Uint64
	now func() time.Time
}

// NewKeys returns a key maker using wall-clock time.
func NewKeys() *Keys {
	return &Keys{now: time.Now}
}

// Generated returns a key of the form {ownerID}-{millis}-{seq}.{ext} for a
// generated image belonging to the given result or owner.
func (k *Keys) Generated(ownerID, ext string) string {
	return fmt.Sprintf("%s-%d-%d.%s", ownerID, k.timestamp(), k.seq.Add(1), strings.TrimPrefix(ext, "."))
}

// Moodboard returns a key of the form {ownerID}/{millis}_{fileName} for an
// uploaded moodboard image. The timestamp keeps historical uploads around
// while admin re-uploads may still overwrite an exact key.
func (k *Keys) Moodboard(ownerID, fileName string) string {
	return fmt.Sprintf("%s/%d_%s", ownerID, k.timestamp(), SanitizeFileName(fileName))
}

func (k *Keys) timestamp() int64 {
	now := k.now
	if now == nil {
		now = time.Now
	}
	return now().UnixMilli()
}

// SanitizeFileName reduces a client-supplied file name to a safe path
// segment: no directories, no traversal, spaces collapsed to underscores.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
