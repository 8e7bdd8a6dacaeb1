package tools

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	fetchTimeout   = 15 * time.Second
	fetchBodyLimit = 1 << 20
	fetchTextCap   = 8 * 1024
)

// FetchURL returns the page fetching tool: it downloads an HTTP(s) page
// and hands the model its readable text with markup stripped.
func FetchURL() *Tool {
	t := New("fetch_url",
		"Fetch a web page and return its readable text content.",
		fetchURL)
	t.AddParam(Param{
		Name:        "url",
		Type:        "string",
		Description: "HTTP(s) address of the page to fetch",
		Required:    true,
	})
	return t
}

var fetchClient = &http.Client{Timeout: fetchTimeout}

func fetchURL(args []string) string {
	if len(args) != 1 {
		return "Operation failed as a single URL argument is needed"
	}

	resp, err := fetchClient.Get(args[0])
	if err != nil {
		return fmt.Sprintf("Failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Failed to fetch URL: status %d", resp.StatusCode)
	}

	text, err := extractText(io.LimitReader(resp.Body, fetchBodyLimit))
	if err != nil {
		return fmt.Sprintf("Failed to read page: %v", err)
	}
	if text == "" {
		return "Page contains no readable text"
	}
	if len(text) > fetchTextCap {
		text = text[:fetchTextCap] + "..."
	}
	return text
}

// extractText walks the HTML tree collecting visible text, skipping
// script and style subtrees.
func extractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String(), nil
}
