// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spadev

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// baseRe matches the base element in index.html in order to allow us to
// dynamically rewrite the base the SPA is served from.
//
// Please note: "*?" instead of "*" ensures that our irregular expression
// doesn't get too greedy, gobbling much more than it should until the last(!)
// empty element.
var baseRe = regexp.MustCompile(`(<base href=").*?("\s*/>)`)

// contentTypes supplements the MIME types built into the standard library for
// the static asset file types an SPA bundle typically contains.
var contentTypes = map[string]string{
	".ico":   "image/x-icon",
	".ttf":   "font/ttf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// SPAHandler implements an http.Handler serving an SPA bundle from an fs.FS.
// Request paths classified as StaticAsset are served literally (or get a 404
// when missing), all other request paths are served the index (entry)
// document, so client-side routing can take over in the browser.
type SPAHandler struct {
	fs            fs.FS         // the FS to serve the bundle from.
	index         string        // (unrooted) path and name of the index document inside fs.
	rewriteBase   bool          // rewrite the index document's <base href> element?
	indexRewriter IndexRewriter // optional user function to rewrite the index as necessary.
	log           *zap.Logger
}

// NewSPAHandler returns a new HTTP handler serving the SPA bundle found in
// the specified fs, with index being the unrooted, slash-separated path+name
// of the entry document, typically "index.html". NewSPAHandler sanitizes the
// index path.
//
// In order to serve a bundle from a directory on the OS file system, use
// os.DirFS:
//
//	h := NewSPAHandler(os.DirFS("build/web"), "index.html")
func NewSPAHandler(fs fs.FS, index string, opts ...SPAHandlerOption) *SPAHandler {
	h := &SPAHandler{
		fs:    fs,
		index: path.Clean("/" + index)[1:],
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SPAHandlerOption sets optional properties at the time of creating an
// SPAHandler.
type SPAHandlerOption func(*SPAHandler)

// IndexRewriter rewrites (parts) of the index document contents to be
// delivered to a requesting client. It can be optionally activated using the
// WithIndexRewriter option when creating a new SPAHandler.
type IndexRewriter func(r *http.Request, index string) string

// WithIndexRewriter sets the specified IndexRewriter that gets called before
// delivering the index document contents to requesting clients, allowing for
// application-specific changes.
func WithIndexRewriter(rewriter IndexRewriter) SPAHandlerOption {
	return func(h *SPAHandler) {
		h.indexRewriter = rewriter
	}
}

// WithBaseRewriting enables rewriting the href of the index document's
// <base> element to match the base path the SPA is reachable at from the
// client's perspective, based on forwarding proxy headers. Without this
// option the index document is served byte by byte as found.
func WithBaseRewriting() SPAHandlerOption {
	return func(h *SPAHandler) {
		h.rewriteBase = true
	}
}

// WithLogger sets the logger for request and serving error logging. Without
// it, an SPAHandler doesn't log.
func WithLogger(log *zap.Logger) SPAHandlerOption {
	return func(h *SPAHandler) {
		if log != nil {
			h.log = log
		}
	}
}

// ServeHTTP serves GET and HEAD requests either with a static asset or the
// index document, depending on the Route the request path classifies as.
// Other methods are rejected with 405.
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		return
	}
	route := Classify(r.URL.EscapedPath())
	// Get the absolute and also cleaned path to the requested resource in order
	// to prevent parent directory traversal outside the document root.
	// Slapping "/" ensures that path.Clean does NOT use the current working
	// dir for resolving the request path.
	reqPath := path.Clean("/" + r.URL.Path)
	h.log.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", reqPath),
		zap.Stringer("route", route))
	if route == StaticAsset {
		h.serveFile(w, r, reqPath[1:], nil) // ...fs.FS uses unrooted paths.
		return
	}
	h.serveFile(w, r, h.index, h.indexRewrite(r, reqPath))
}

// indexRewrite returns the rewriting function to apply to the index document
// when serving the specified request, or nil if the index document is to be
// served unchanged.
func (h *SPAHandler) indexRewrite(r *http.Request, reqPath string) func(string) string {
	if !h.rewriteBase && h.indexRewriter == nil {
		return nil
	}
	return func(index string) string {
		if h.rewriteBase {
			// Sanitize the base path so it cannot interfere with our regexp
			// replacement where we need to use "$1" and "$2" back references.
			base := strings.ReplaceAll(basename(r, reqPath), "$", "")
			index = baseRe.ReplaceAllString(index, "${1}"+base+"${2}")
		}
		if h.indexRewriter != nil {
			index = h.indexRewriter(r, index)
		}
		return index
	}
}

// serveFile serves the regular file name from the SPAHandler's fs, passing
// its contents through rewrite first if non-nil. Missing files, as well as
// anything not being a regular file, result in a 404.
func (h *SPAHandler) serveFile(w http.ResponseWriter, r *http.Request, name string, rewrite func(string) string) {
	var err error
	defer func() {
		if err != nil {
			h.fail(w, name, err)
		}
	}()
	if name == "" {
		err = fs.ErrNotExist
		return
	}
	f, err := h.fs.Open(name)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return
	}
	if !info.Mode().IsRegular() {
		err = fmt.Errorf("%q is not a regular file: %w", name, fs.ErrNotExist)
		return
	}
	var content io.ReadSeeker
	if rewrite != nil {
		var contents []byte
		if contents, err = io.ReadAll(f); err != nil {
			return
		}
		content = strings.NewReader(rewrite(string(contents)))
	} else if content, err = seekable(f); err != nil {
		return
	}
	if ct, ok := contentTypes[path.Ext(name)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, path.Base(name), info.ModTime(), content)
}

// fail sends a normalized error response, logging all errors except for
// missing files.
func (h *SPAHandler) fail(w http.ResponseWriter, name string, err error) {
	if !errors.Is(err, fs.ErrNotExist) {
		h.log.Warn("cannot serve file", zap.String("name", name), zap.Error(err))
	}
	NormalizedHttpError(w, err)
}

// seekable returns f as an io.ReadSeeker, reading it completely into memory
// only if the fs.FS implementation doesn't support seeking.
func seekable(f fs.File) (io.ReadSeeker, error) {
	if rs, ok := f.(io.ReadSeeker); ok {
		return rs, nil
	}
	contents, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(contents), nil
}
