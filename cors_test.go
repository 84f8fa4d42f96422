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
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CORS", func() {

	expectCORS := func(hdr http.Header) {
		GinkgoHelper()
		Expect(hdr.Get(AllowOriginHeader)).To(Equal("*"))
		Expect(hdr.Get(AllowMethodsHeader)).To(Equal("GET, POST, OPTIONS"))
		Expect(hdr.Get(AllowHeadersHeader)).To(Equal("Content-Type"))
	}

	DescribeTable("attaches headers regardless of status",
		func(status int) {
			h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(w.Code).To(Equal(status))
			expectCORS(w.Result().Header)
		},
		Entry(nil, http.StatusOK),
		Entry(nil, http.StatusNotFound),
		Entry(nil, http.StatusInternalServerError),
	)

	It("answers preflight requests itself", func() {
		called := false
		h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/assets/x.png", nil))
		Expect(called).To(BeFalse())
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Body.Len()).To(BeZero())
		expectCORS(w.Result().Header)
	})

})
