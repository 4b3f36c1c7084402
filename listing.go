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
	"html/template"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const listingTemplateName = "listing"

var listingTemplate = template.Must(template.New(listingTemplateName).Parse(`<!DOCTYPE HTML>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Directory listing for {{.Path}}</title>
</head>
<body>
<h1>Directory listing for {{.Path}}</h1>
<hr>
<ul>
{{range .Entries}}<li><a href="{{.Href}}">{{.Display}}</a></li>
{{end}}</ul>
<hr>
</body>
</html>
`))

type ListingEntry struct {
	Name    string    `json:"name"`
	Dir     bool      `json:"dir"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	// Display name shown in the html page, "/" after directories and "@" after links
	Display string `json:"-"`
	Href    string `json:"-"`
}

// Listing the entries of one directory under the root
type Listing struct {
	Path    string          `json:"path"`
	Entries []*ListingEntry `json:"entries"`
}

// readListing lists dir sorted by name, case insensitive
func readListing(dir afero.File, displayPath string) (*Listing, error) {
	infos, err := dir.Readdir(-1)
	if err != nil {
		return nil, &IOError{Path: displayPath, Err: err}
	}
	sort.Slice(infos, func(i, j int) bool {
		a, b := strings.ToLower(infos[i].Name()), strings.ToLower(infos[j].Name())
		if a == b {
			return infos[i].Name() < infos[j].Name()
		}
		return a < b
	})
	listing := &Listing{
		Path:    displayPath,
		Entries: make([]*ListingEntry, 0, len(infos)),
	}
	for _, info := range infos {
		entry := &ListingEntry{
			Name:    info.Name(),
			Dir:     info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime().UTC(),
			Display: info.Name(),
			Href:    url.PathEscape(info.Name()),
		}
		if info.IsDir() {
			entry.Display += "/"
			entry.Href += "/"
		} else if info.Mode()&os.ModeSymlink != 0 {
			entry.Display += "@"
		}
		listing.Entries = append(listing.Entries, entry)
	}
	return listing, nil
}

func (h *fileHandler) serveListing(c *gin.Context, displayPath string, dir afero.File) {
	listing, err := readListing(dir, displayPath)
	if err != nil {
		abortWithError(c, err)
		return
	}
	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		body, err := json.Marshal(listing)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
	default:
		c.HTML(http.StatusOK, listingTemplateName, listing)
	}
}
