package blogicum

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// handleSitemap lists the index, the published categories and every visible
// post.
func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Store.ListPosts(PostFilter{OnlyVisible: true})
	if err != nil {
		return err
	}
	cats, err := a.taxonomy.Categories()
	if err != nil {
		return err
	}

	base := a.Config.Site.URL
	urls := []sitemapURL{{Loc: BuildURL(base)}}
	for _, cat := range cats {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "category", cat.Slug)})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "posts", fmt.Sprint(p.ID)),
			LastMod: p.PubDate.Format(time.RFC3339),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
