package freshserve

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestListingHTML(t *testing.T) {
	convey.Convey("test html directory listing", t, func() {
		handler := newTestServer(t).Handler()
		rec := doRequest(handler, http.MethodGet, "/docs/", map[string]string{"Accept": "text/html,application/xhtml+xml,*/*;q=0.8"})
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
		convey.So(err, convey.ShouldBeNil)
		convey.So(doc.Find("title").Text(), convey.ShouldEqual, "Directory listing for /docs/")
		convey.So(doc.Find("h1").Text(), convey.ShouldEqual, "Directory listing for /docs/")

		names := []string{}
		hrefs := []string{}
		doc.Find("ul li a").Each(func(_ int, s *goquery.Selection) {
			names = append(names, s.Text())
			href, _ := s.Attr("href")
			hrefs = append(hrefs, href)
		})
		convey.So(names, convey.ShouldResemble, []string{"A.md", "b.txt", "sub/", "x y.txt"})
		convey.So(hrefs, convey.ShouldResemble, []string{"A.md", "b.txt", "sub/", "x%20y.txt"})
	})

	convey.Convey("test listing escapes names", t, func() {
		mem := afero.NewMemMapFs()
		convey.So(afero.WriteFile(mem, "/root/<i>a&b.txt", []byte("x"), 0o644), convey.ShouldBeNil)
		handler := NewServer(nil, ServerWithFs(afero.NewBasePathFs(mem, "/root"))).Handler()
		rec := doRequest(handler, http.MethodGet, "/", nil)
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		convey.So(rec.Body.String(), convey.ShouldNotContainSubstring, "<i>a&b")

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
		convey.So(err, convey.ShouldBeNil)
		convey.So(doc.Find("ul li a").First().Text(), convey.ShouldEqual, "<i>a&b.txt")
	})

	convey.Convey("test listing an empty directory", t, func() {
		handler := newTestServer(t).Handler()
		rec := doRequest(handler, http.MethodGet, "/empty/", nil)
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
		convey.So(err, convey.ShouldBeNil)
		convey.So(doc.Find("ul li").Length(), convey.ShouldEqual, 0)
	})
}

func TestListingJSON(t *testing.T) {
	convey.Convey("test json directory listing", t, func() {
		handler := newTestServer(t).Handler()
		rec := doRequest(handler, http.MethodGet, "/docs/", map[string]string{"Accept": "application/json"})
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		convey.So(rec.Result().Header.Get("Content-Type"), convey.ShouldEqual, "application/json; charset=utf-8")
		convey.So(rec.Result().Header.Get("Cache-Control"), convey.ShouldEqual, CacheControlValue)

		listing := &Listing{}
		convey.So(json.Unmarshal(rec.Body.Bytes(), listing), convey.ShouldBeNil)
		convey.So(listing.Path, convey.ShouldEqual, "/docs/")
		convey.So(listing.Entries, convey.ShouldHaveLength, 4)
		convey.So(listing.Entries[0].Name, convey.ShouldEqual, "A.md")
		convey.So(listing.Entries[0].Size, convey.ShouldEqual, 3)
		convey.So(listing.Entries[2].Name, convey.ShouldEqual, "sub")
		convey.So(listing.Entries[2].Dir, convey.ShouldBeTrue)
	})
}
