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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("forwarding proxy headers", func() {

	request := func(path string, header http.Header) *http.Request {
		GinkgoHelper()
		return &http.Request{
			Method: http.MethodGet,
			URL:    Successful(url.Parse("http://foo.bar:12345" + path)),
			Header: header,
		}
	}

	DescribeTable("determines original request path",
		func(path string, header http.Header, expected string) {
			Expect(originalReqPath(request(path, header), path)).To(Equal(expected))
		},
		Entry("/ without proxy headers", "/", nil, "/"),
		Entry("a request path without proxy headers", "/some/path", nil, "/some/path"),

		Entry("/ with X-Forwarded-Prefix /", "/", http.Header{
			ForwardedPrefixHeader: []string{"/"},
		}, "/"),
		Entry("/ with X-Forwarded-Prefix /prefix", "/", http.Header{
			ForwardedPrefixHeader: []string{"/prefix"},
		}, "/prefix"),
		Entry("/foo with X-Forwarded-Prefix /prefix", "/foo", http.Header{
			ForwardedPrefixHeader: []string{"/prefix"},
		}, "/prefix/foo"),
		Entry("/foo with unrooted X-Forwarded-Prefix", "/foo", http.Header{
			ForwardedPrefixHeader: []string{"prefix/"},
		}, "/prefix/foo"),

		Entry("/ with X-Forwarded-Uri path-only /", "/", http.Header{
			ForwardedUriHeader: []string{"/"},
		}, "/"),
		Entry("/ with empty X-Forwarded-Uri", "/", http.Header{
			ForwardedUriHeader: []string{""},
		}, "/"),
		Entry("/ with X-Forwarded-Uri path-only /prefix", "/", http.Header{
			ForwardedUriHeader: []string{"/prefix"},
		}, "/prefix"),
		Entry("/ with schemed X-Forwarded-Uri", "/", http.Header{
			ForwardedUriHeader: []string{"http://foo.bar:12345/prefix"},
		}, "/prefix"),
		Entry("/ with schemed X-Forwarded-Uri and trailing slash", "/", http.Header{
			ForwardedUriHeader: []string{"http://foo.bar:12345/prefix/"},
		}, "/prefix"),
		Entry("/ with unparsable X-Forwarded-Uri", "/", http.Header{
			ForwardedUriHeader: []string{"http://foo.bar:12345/%zz"},
		}, "/"),
	)

	DescribeTable("determines base path",
		func(path string, header http.Header, expected string) {
			Expect(basename(request(path, header), path)).To(Equal(expected))
		},
		Entry("/ without proxy headers", "/", nil, "/"),
		Entry("/foo/bar without proxy headers", "/foo/bar", nil, "/"),

		Entry("/ rewritten with prefix /foo", "/", http.Header{
			ForwardedPrefixHeader: []string{"/foo"},
		}, "/foo/"),
		Entry("/foo/bar rewritten with prefix /", "/foo/bar", http.Header{
			ForwardedPrefixHeader: []string{"/"},
		}, "/"),
		Entry("/foo/bar rewritten with empty prefix", "/foo/bar", http.Header{
			ForwardedPrefixHeader: []string{""},
		}, "/"),
		Entry("/foo/bar rewritten with prefix /foo", "/foo/bar", http.Header{
			ForwardedPrefixHeader: []string{"/foo"},
		}, "/foo/"),
		Entry("/foo/bar rewritten with prefix /foo/", "/foo/bar", http.Header{
			ForwardedPrefixHeader: []string{"/foo/"},
		}, "/foo/"),
		Entry("/foo/bar rewritten with prefix /bar", "/foo/bar", http.Header{
			ForwardedPrefixHeader: []string{"/bar"},
		}, "/bar/"), // sic!
		Entry("/foo/bar rewritten with prefix /foo/bar/", "/foo/bar", http.Header{
			ForwardedPrefixHeader: []string{"/foo/bar/"},
		}, "/foo/bar/"),
		Entry("/foo/bar with unrelated X-Forwarded-Uri", "/foo/bar", http.Header{
			ForwardedUriHeader: []string{"/baz"},
		}, "/"),
	)

})
