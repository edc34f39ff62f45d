// Package assets maps logical page and subtask identifiers to image files
// under a conventional directory layout. Every lookup is existence-checked;
// a missing asset degrades to (path, false), never an error.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Layout under the assets root:
//
//	pages/page-{n}.png                      manual page
//	parts/{slug}.png                        parts-required photo per subtask
//	handover/receive-t{giver}-t{receiver}.png
//	handover/give-t{giver}-t{receiver}.png
type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// PageImage returns the manual page path relative to the root and whether
// the file exists.
func (r *Resolver) PageImage(page int) (string, bool) {
	rel := filepath.Join("pages", fmt.Sprintf("page-%d.png", page))
	return rel, r.exists(rel)
}

// PartsImage returns the parts-required photo for a subtask.
func (r *Resolver) PartsImage(subtaskName string) (string, bool) {
	rel := filepath.Join("parts", Slug(subtaskName)+".png")
	return rel, r.exists(rel)
}

// ReceiveImage returns the handover photo shown to the receiving team.
func (r *Resolver) ReceiveImage(giverTeam, receiverTeam int) (string, bool) {
	rel := filepath.Join("handover", fmt.Sprintf("receive-t%d-t%d.png", giverTeam, receiverTeam))
	return rel, r.exists(rel)
}

// GiveImage returns the handover photo shown to the giving team.
func (r *Resolver) GiveImage(giverTeam, receiverTeam int) (string, bool) {
	rel := filepath.Join("handover", fmt.Sprintf("give-t%d-t%d.png", giverTeam, receiverTeam))
	return rel, r.exists(rel)
}

// ReadPage loads the manual page bytes for assistant image grounding.
// Missing pages report ok=false and are silently omitted by callers.
func (r *Resolver) ReadPage(page int) ([]byte, bool) {
	rel, ok := r.PageImage(page)
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(r.root, rel))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *Resolver) exists(rel string) bool {
	info, err := os.Stat(filepath.Join(r.root, rel))
	return err == nil && !info.IsDir()
}

// Slug normalizes a subtask name into a file name: lowercase, spaces to
// hyphens, everything outside [a-z0-9-] dropped.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
