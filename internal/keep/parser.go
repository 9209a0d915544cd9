package keep

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mrlokans/keep-export/internal/entities"
)

// Class names used by the Keep Takeout HTML markup
const (
	classHeading     = "heading"
	classContent     = "content"
	classLabels      = "labels"
	classLabel       = "label"
	classAttachments = "attachments"
)

// Parser extracts notes from Google Keep Takeout HTML files
type Parser struct {
	// Location is used to interpret heading dates, which carry no zone.
	Location *time.Location
}

func NewParser() *Parser {
	return &Parser{Location: time.Local}
}

// ParseFile reads and parses a single exported note.
func (p *Parser) ParseFile(path string) (*entities.Note, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open note file: %w", err)
	}
	defer file.Close()

	return p.Parse(file, path)
}

// Parse builds a Note from one exported HTML document.
//
// A document without a <title> or heading element is not an exported note
// and yields ErrMalformedDocument.
func (p *Parser) Parse(r io.Reader, sourcePath string) (*entities.Note, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	titleNode := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Title
	})
	if titleNode == nil {
		return nil, fmt.Errorf("%w: no title element", ErrMalformedDocument)
	}

	headingNode := findFirst(doc, hasClass(classHeading))
	if headingNode == nil {
		return nil, fmt.Errorf("%w: no heading element", ErrMalformedDocument)
	}

	heading := strings.TrimSpace(textContent(headingNode))
	createdAt, err := ParseHeadingDate(heading, p.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: heading: %v", ErrMalformedDocument, err)
	}

	note := &entities.Note{
		CreatedAt:  createdAt,
		Title:      normalizeTitle(strings.TrimSpace(textContent(titleNode)), heading),
		Heading:    heading,
		SourcePath: sourcePath,
		Labels:     []string{},
	}

	if content := findFirst(doc, hasClass(classContent)); content != nil {
		note.Body = strings.Join(textNodes(content), "\n")
	}

	for _, labels := range findAll(doc, hasClass(classLabels)) {
		for _, label := range findAll(labels, hasClass(classLabel)) {
			note.Labels = append(note.Labels, strings.TrimSpace(textContent(label)))
		}
	}

	for _, container := range findAll(doc, hasClass(classAttachments)) {
		images := findAll(container, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.DataAtom == atom.Img
		})
		for _, img := range images {
			src, ok := attr(img, "src")
			if !ok {
				continue
			}
			attachment, err := DecodeAttachment(src)
			if err != nil {
				return nil, fmt.Errorf("attachment %d of %s: %w", len(note.Attachments)+1, sourcePath, err)
			}
			note.Attachments = append(note.Attachments, attachment)
		}
	}

	return note, nil
}

// normalizeTitle drops titles that merely repeat the heading; Keep puts
// the creation date in <title> for untitled notes.
func normalizeTitle(title, heading string) *string {
	if title == "" || title == heading {
		return nil
	}
	return &title
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		value, ok := attr(n, "class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(value) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// findFirst returns the first descendant of root (depth-first, document
// order) matching the predicate.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns the outermost descendants of root matching the predicate.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			found = append(found, c)
			continue
		}
		found = append(found, findAll(c, match)...)
	}
	return found
}

// textNodes collects every text node below n in document order.
func textNodes(n *html.Node) []string {
	var texts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			texts = append(texts, node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return texts
}

func textContent(n *html.Node) string {
	return strings.Join(textNodes(n), "")
}
