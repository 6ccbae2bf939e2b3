package internal

import (
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const contentTypeBinary = "application/octet-stream"

// staticFiles serves a directory under a URL prefix.
type staticFiles struct {
	prefix string
	dir    string
	debug  bool
}

// serve resolves urlPath against the static root.
// Anything that is not a regular file inside the root is a 404, including
// traversal attempts and symlinks pointing outside of it.
func (s *staticFiles) serve(urlPath string, head bool) (*Response, error) {
	rel, ok := staticRelPath(strings.TrimPrefix(urlPath, s.prefix))
	if !ok {
		return nil, fs.ErrNotExist
	}

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(rel)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fs.ErrNotExist
	}

	resp := NewResponse(http.StatusOK)
	resp.AddHeader("Content-Type", staticContentType(rel))
	resp.AddHeader("Content-Length", strconv.FormatInt(info.Size(), 10))
	if s.debug {
		resp.AddHeader("Cache-Control", "no-store, no-cache, must-revalidate")
	} else {
		resp.AddHeader("Cache-Control", "public, max-age=3600")
	}
	if head {
		return resp, nil
	}

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	resp.Body = body
	return resp, nil
}

// staticRelPath returns a sanitized path relative to the static root.
// It rejects dot segments before cleaning so "a/../b" is refused instead of
// being cleaned into something that was never requested.
func staticRelPath(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}
	if strings.HasPrefix(rel, "/") {
		return "", false
	}
	for seg := range strings.SplitSeq(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	return clean, true
}

func staticContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return contentTypeBinary
}
