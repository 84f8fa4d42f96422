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

import "net/http"

// CORS response headers attached to every response, so that browser-based
// clients served from other origins during development can talk to us.
const (
	AllowOriginHeader  = "Access-Control-Allow-Origin"
	AllowMethodsHeader = "Access-Control-Allow-Methods"
	AllowHeadersHeader = "Access-Control-Allow-Headers"
)

// corsHeaders maps each CORS response header to its value.
var corsHeaders = map[string]string{
	AllowOriginHeader:  "*",
	AllowMethodsHeader: "GET, POST, OPTIONS",
	AllowHeadersHeader: "Content-Type",
}

// WithCORS returns a handler attaching the corsHeaders to the response before
// passing the request on to next. As the headers are set before next gets a
// chance to write the status line, they also go out with error responses,
// such as 404s.
//
// OPTIONS (preflight) requests are answered directly with 204 and an empty
// body; next never sees them.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		for name, value := range corsHeaders {
			hdr.Set(name, value)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
