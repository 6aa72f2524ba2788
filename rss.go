package blogicum

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogicum/views"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Description string `xml:"description,omitempty"`
}

// handleFeed serves an RSS 2.0 feed of the visible posts, capped to one page.
func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Store.ListPosts(PostFilter{OnlyVisible: true, Limit: postsPerPage})
	if err != nil {
		return err
	}

	base := a.Config.Site.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := BuildURL(base, "posts", fmt.Sprint(p.ID))
		var body bytes.Buffer
		if err := views.PostText(p.Text).Render(c.Request().Context(), &body); err != nil {
			return err
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Author:      p.Author,
			PubDate:     p.PubDate.Format(time.RFC1123Z),
			GUID:        link,
			Description: body.String(),
		})
	}
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Site.Name,
			Link:        base,
			Description: a.Config.Site.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(200)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
