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
	"maps"
	"net/url"
	"path"
	"slices"
	"strings"
)

// Route tells how a request path is to be served: either literally as a
// static asset from the document root, or as the SPA's entry document.
type Route int

const (
	// SPAFallback routes are client-side application routes, such as "/login"
	// or "/dashboard/42"; they always get the entry document.
	SPAFallback Route = iota
	// StaticAsset routes get served literally from the document root, or
	// answered with 404 if missing.
	StaticAsset
)

func (r Route) String() string {
	switch r {
	case StaticAsset:
		return "static-asset"
	case SPAFallback:
		return "spa-fallback"
	}
	return "unknown"
}

// assetPrefixes lists the reserved path prefixes static assets live under.
var assetPrefixes = []string{"/assets/", "/packages/"}

// assetExtensions is the set of file name extensions (including the leading
// dot) that always mark a static asset, regardless of the directory they're
// requested from.
var assetExtensions = map[string]struct{}{
	".js":    {},
	".json":  {},
	".png":   {},
	".jpg":   {},
	".ico":   {},
	".svg":   {},
	".ttf":   {},
	".woff":  {},
	".woff2": {},
}

// AssetPrefixes returns the reserved path prefixes static assets live under.
func AssetPrefixes() []string {
	return slices.Clone(assetPrefixes)
}

// AssetExtensions returns the sorted file name extensions, including the
// leading dot, that always mark a static asset.
func AssetExtensions() []string {
	return slices.Sorted(maps.Keys(assetExtensions))
}

// Classify returns the Route for the specified request target. The target
// may carry a query string and fragment; both are discarded before
// classification, so "/dashboard?tab=2" classifies exactly like "/dashboard".
//
// Matching is case-sensitive and works on the path as requested, that is,
// before any cleaning: "/assets" (without the trailing slash) thus is an
// SPA route.
func Classify(target string) Route {
	p := requestPath(target)
	for _, prefix := range assetPrefixes {
		if strings.HasPrefix(p, prefix) {
			return StaticAsset
		}
	}
	if _, ok := assetExtensions[path.Ext(p)]; ok {
		return StaticAsset
	}
	return SPAFallback
}

// requestPath returns only the path part of a request target. Targets that
// don't parse as URLs are cut at the first "?" or "#" instead.
func requestPath(target string) string {
	if u, err := url.Parse(target); err == nil {
		return u.Path
	}
	target, _, _ = strings.Cut(target, "#")
	target, _, _ = strings.Cut(target, "?")
	return target
}
