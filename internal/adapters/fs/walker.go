// Package fs provides file system adapters for walking image trees and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/zerr"
)

// WalkOptions controls a walk.
type WalkOptions struct {
	Recursive bool
	// Exclude holds basenames to skip. Entries containing glob
	// metacharacters are matched as doublestar patterns.
	Exclude []string
	// IdentifyMIME skips files whose guessed MIME type is known and not an image.
	IdentifyMIME bool
}

// Walker yields candidate image files below a root.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields the regular files under root in lexical, depth-first order.
//
// A root that is a file is yielded as is. Without Recursive only the
// immediate children of a directory root are considered. Exclusion and the
// MIME prefilter are applied before a path is yielded, so skipped paths never
// reach format detection. Errors reading a directory are yielded with an
// empty path and the walk continues with the next entry.
func (w *Walker) Walk(root string, opts WalkOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield("", zerr.With(zerr.Wrap(err, "cannot access path"), "path", root))
			return
		}
		if !info.IsDir() {
			yield(root, nil)
			return
		}
		w.walkDir(root, opts, yield)
	}
}

// walkDir returns false when the consumer stopped the iteration.
func (w *Walker) walkDir(dir string, opts WalkOptions, yield func(string, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return yield("", zerr.With(zerr.Wrap(err, "cannot read directory"), "path", dir))
	}

	for _, entry := range entries {
		name := entry.Name()
		if Excluded(name, opts.Exclude) {
			continue
		}

		path := filepath.Join(dir, name)
		if entry.IsDir() {
			if opts.Recursive && !w.walkDir(path, opts, yield) {
				return false
			}
			continue
		}
		if !entry.Type().IsRegular() && !isFileLink(path, entry) {
			continue
		}
		if opts.IdentifyMIME && !MaybeImage(name) {
			continue
		}
		if !yield(path, nil) {
			return false
		}
	}
	return true
}

// isFileLink reports whether entry is a symlink pointing at a regular file.
// Symlinked directories are not followed.
func isFileLink(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Excluded reports whether name matches one of the exclusion entries.
func Excluded(name string, exclude []string) bool {
	for _, pattern := range exclude {
		if !strings.ContainsAny(pattern, "*?[{") {
			if name == pattern {
				return true
			}
			continue
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// knownTypes pins the guesses MaybeImage relies on so they do not depend on
// the host's mime.types files.
var knownTypes = map[string]string{
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".ico":  "image/vnd.microsoft.icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".css":  "text/css; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
	".go":   "text/x-go; charset=utf-8",
	".gz":   "application/gzip",
	".htm":  "text/html; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".md":   "text/markdown; charset=utf-8",
	".pdf":  "application/pdf",
	".py":   "text/x-python; charset=utf-8",
	".tar":  "application/x-tar",
	".txt":  "text/plain; charset=utf-8",
	".xml":  "text/xml; charset=utf-8",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".zip":  "application/zip",
}

func init() {
	for ext, typ := range knownTypes {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			panic(err)
		}
	}
}

// MaybeImage guesses the MIME type from the file name. Files whose type
// cannot be guessed are kept; only a known non-image type rejects a file.
func MaybeImage(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return true
	}
	typ := mime.TypeByExtension(strings.ToLower(ext))
	if typ == "" {
		return true
	}
	return strings.HasPrefix(typ, "image/")
}

// MergeExcludes returns the union of the given exclusion lists in order.
func MergeExcludes(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item != "" && !slices.Contains(out, item) {
				out = append(out, item)
			}
		}
	}
	return out
}
