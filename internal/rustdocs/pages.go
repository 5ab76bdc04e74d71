package rustdocs

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/shinji-kodama/gbdocs/internal/model"
)

// CommonPages returns the well-known entry points of the local Rust
// documentation.
func CommonPages() []model.CommonPage {
	return []model.CommonPage{
		{Path: "book/", Description: "The Rust Programming Language (Book)"},
		{Path: "book/ch01-00-getting-started.html", Description: "Getting Started"},
		{Path: "book/ch02-00-guessing-game-tutorial.html", Description: "Guessing Game Tutorial"},
		{Path: "book/ch03-00-common-programming-concepts.html", Description: "Common Programming Concepts"},
		{Path: "book/ch04-00-understanding-ownership.html", Description: "Understanding Ownership"},
		{Path: "book/ch05-00-structs.html", Description: "Using Structs"},
		{Path: "book/ch06-00-enums.html", Description: "Enums and Pattern Matching"},
		{Path: "book/ch07-00-managing-growing-projects-with-packages-crates-and-modules.html", Description: "Managing Growing Projects"},
		{Path: "book/ch08-00-common-collections.html", Description: "Common Collections"},
		{Path: "book/ch09-00-error-handling.html", Description: "Error Handling"},
		{Path: "book/ch10-00-generics.html", Description: "Generic Types, Traits, and Lifetimes"},
		{Path: "std/", Description: "Standard Library Documentation"},
		{Path: "reference/", Description: "The Rust Reference"},
		{Path: "nomicon/", Description: "The Rustonomicon (Unsafe Rust)"},
		{Path: "edition-guide/", Description: "Edition Guide"},
	}
}

// PageURL returns the URL to open for page. An empty page means the
// documentation index at docPath. Pages that are already http(s) or file
// URLs are used as-is; anything else is taken relative to the directory
// holding index.html.
func PageURL(docPath, page string) string {
	docPath = filepath.ToSlash(docPath)
	if page == "" {
		return "file://" + docPath
	}
	if strings.HasPrefix(page, "http") || strings.HasPrefix(page, "file://") {
		return page
	}

	base := strings.TrimSuffix(docPath, "index.html")
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return "file://" + base + strings.TrimPrefix(page, "/")
}

// LocalPath returns the file behind a file:// URL, resolving directory URLs
// to their index.html. ok is false for other schemes.
func LocalPath(target string) (path string, ok bool) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	path = filepath.FromSlash(u.Path)
	if strings.HasSuffix(u.Path, "/") {
		path = filepath.Join(path, "index.html")
	}
	return path, true
}

// errNoTitle is returned by ParseTitle for documents without a <title>.
var errNoTitle = errors.New("document has no title")

// PageTitle returns the <title> of the HTML file at path.
func PageTitle(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	title, err := ParseTitle(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return title, nil
}

// ParseTitle returns the text of the first <title> element in r, with runs
// of whitespace collapsed.
func ParseTitle(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var title string
	found := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			title = strings.Join(strings.Fields(sb.String()), " ")
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	if !found || title == "" {
		return "", errNoTitle
	}
	return title, nil
}
