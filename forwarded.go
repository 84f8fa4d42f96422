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
	"net/http"
	"net/url"
	"path"
	"strings"
)

// ForwardedPrefixHeader, if present, specifies the prefix that needs to be
// prepended to the request's URI path in order to learn the original path
// when hitting the path rewriting proxy.
const ForwardedPrefixHeader = "X-Forwarded-Prefix"

// ForwardedUriHeader, if present, specifies the original URI (or sometimes only
// the original URI path) of a request when hitting the first path rewriting
// proxy.
const ForwardedUriHeader = "X-Forwarded-Uri"

// originalReqPath returns the (hopefully) original path when hitting the first
// proxy in a chain, based on what has been passed down to us. If no suitable
// forwarding information is present, it returns the already sanitized reqPath.
func originalReqPath(r *http.Request, reqPath string) string {
	if fwprefix := r.Header.Get(ForwardedPrefixHeader); fwprefix != "" {
		fwprefix = path.Clean("/" + fwprefix)
		return path.Join(fwprefix, reqPath)
	}
	// Some proxies pass only the original request path, others the full
	// original URI.
	if fwurl := r.Header.Get(ForwardedUriHeader); fwurl != "" {
		if strings.HasPrefix(fwurl, "/") {
			return path.Clean(fwurl)
		}
		if u, err := url.Parse(fwurl); err == nil {
			return path.Clean("/" + u.Path)
		}
	}
	return reqPath
}

// basename returns the base path of the SPA from the client's perspective,
// always ending in "/". If deriving the base path is impossible, it is taken
// to be "/".
func basename(r *http.Request, reqPath string) string {
	original := originalReqPath(r, reqPath)
	if strings.HasSuffix(reqPath, "/") && !strings.HasSuffix(original, "/") {
		// the reverse proxy redirected from /foo to /foo/ and then rewrote
		// the path to /.
		original += "/"
	}
	var base string
	if strings.HasSuffix(original, reqPath) {
		base = original[:len(original)-len(reqPath)]
	}
	// Browsers otherwise clip off the final path element as if it were a
	// file name.
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}
