// MIT License

// Copyright (c) 2023 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package freshserve

import (
	"io"
	"time"

	"github.com/spf13/afero"
)

// ServerOption optional settings applied by NewServer
type ServerOption func(s *Server)

// ServerWithFs serves fs instead of the root directory on disk,
// fs is expected to be confined already, e.g. by afero.NewBasePathFs
func ServerWithFs(fs afero.Fs) ServerOption {
	return func(s *Server) {
		s.fs = fs
	}
}

// ServerWithOutput where the startup line is printed, stdout by default
func ServerWithOutput(w io.Writer) ServerOption {
	return func(s *Server) {
		s.out = w
	}
}

// ServerWithListing whether directories without an index are listed
func ServerWithListing(listing bool) ServerOption {
	return func(s *Server) {
		s.config.Listing = listing
	}
}

// ServerWithIndexes index file names looked up inside directories, in order
func ServerWithIndexes(indexes ...string) ServerOption {
	return func(s *Server) {
		s.config.Indexes = indexes
	}
}

// ServerWithH2C also accept cleartext HTTP/2
func ServerWithH2C(enable bool) ServerOption {
	return func(s *Server) {
		s.config.H2C = enable
	}
}

func ServerWithReadHeaderTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.config.ReadHeaderTimeout = timeout
	}
}
