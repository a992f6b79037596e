// Package diff compares two HTML document revisions structurally and
// emits a flat, ordered list of per-section change records annotated
// with the nearest enclosing heading hierarchy (levels 1-4). The
// record list maps directly onto change-log section fields.
package diff

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ChangeType tags one change record.
type ChangeType string

const (
	Added    ChangeType = "added"
	Deleted  ChangeType = "deleted"
	Modified ChangeType = "modified"
)

// Record is one structural change between two revisions. The heading
// fields carry the heading context active where the change occurred;
// deeper levels are empty when no heading at that level precedes the
// change.
type Record struct {
	Heading1        string     `json:"section_main_heading_1"`
	Heading2        string     `json:"section_main_heading_2"`
	Heading3        string     `json:"section_main_heading_3"`
	Heading4        string     `json:"section_main_heading_4"`
	Type            ChangeType `json:"type"`
	OriginalContent string     `json:"original_content"` // empty for added
	ModifiedContent string     `json:"modified_content"` // empty for deleted
}

// Compare walks the two parsed trees in lockstep, pairing nodes by
// position, and returns the ordered change records. Either input may
// be empty, meaning the document has no such revision; identical
// inputs produce no records. Deterministic for identical inputs.
func Compare(oldHTML, newHTML string) ([]Record, error) {
	oldBody, err := parseBody(oldHTML)
	if err != nil {
		return nil, fmt.Errorf("parse previous revision: %w", err)
	}
	newBody, err := parseBody(newHTML)
	if err != nil {
		return nil, fmt.Errorf("parse new revision: %w", err)
	}

	w := &walker{}
	w.walkChildren(oldBody, newBody)

	// Return empty slice instead of nil
	if w.records == nil {
		w.records = []Record{}
	}

	return w.records, nil
}

// walker carries the mutable heading context. The context propagates
// depth-first and across siblings: once a heading is seen, records
// after it inherit its text until a heading at the same or a shallower
// level replaces it, which clears all deeper levels.
type walker struct {
	headings [4]string
	records  []Record
}

func (w *walker) walkChildren(oldParent, newParent *html.Node) {
	oldKids := elementChildren(oldParent)
	newKids := elementChildren(newParent)

	n := len(oldKids)
	if len(newKids) > n {
		n = len(newKids)
	}

	for i := 0; i < n; i++ {
		var oldN, newN *html.Node
		if i < len(oldKids) {
			oldN = oldKids[i]
		}
		if i < len(newKids) {
			newN = newKids[i]
		}
		w.walk(oldN, newN)
	}
}

func (w *walker) walk(oldN, newN *html.Node) {
	switch {
	case oldN == nil && newN == nil:
		return

	case oldN == nil:
		// Only the new tree has a node at this position
		w.emit(Added, "", render(newN))
		w.updateHeadings(newN)

	case newN == nil:
		// Only the old tree has a node at this position
		w.emit(Deleted, render(oldN), "")
		w.updateHeadings(oldN)

	case oldN.Data != newN.Data:
		// Tag names differ: wholesale replacement, no recursion
		w.emit(Modified, render(oldN), render(newN))

	default:
		changed := normalize(innerHTML(oldN)) != normalize(innerHTML(newN))

		// A modified heading record carries the context active before
		// the heading itself replaced it.
		pre := w.headings
		w.updateHeadings(newN)

		if !changed {
			return
		}

		w.records = append(w.records, Record{
			Heading1:        pre[0],
			Heading2:        pre[1],
			Heading3:        pre[2],
			Heading4:        pre[3],
			Type:            Modified,
			OriginalContent: render(oldN),
			ModifiedContent: render(newN),
		})

		w.walkChildren(oldN, newN)
	}
}

func (w *walker) emit(t ChangeType, original, modified string) {
	w.records = append(w.records, Record{
		Heading1:        w.headings[0],
		Heading2:        w.headings[1],
		Heading3:        w.headings[2],
		Heading4:        w.headings[3],
		Type:            t,
		OriginalContent: original,
		ModifiedContent: modified,
	})
}

// updateHeadings records the node's text as the active heading for its
// level and clears all deeper levels. Non-heading nodes are ignored.
func (w *walker) updateHeadings(n *html.Node) {
	level := headingLevel(n)
	if level == 0 {
		return
	}

	w.headings[level-1] = strings.TrimSpace(textContent(n))
	for i := level; i < len(w.headings); i++ {
		w.headings[i] = ""
	}
}

// headingLevel returns 1-4 for h1-h4, 0 otherwise.
func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	}
	return 0
}

// parseBody best-effort-parses an HTML string and returns its body
// node. An empty string yields an empty body.
func parseBody(raw string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return findBody(doc), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func elementChildren(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var kids []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			kids = append(kids, c)
		}
	}
	return kids
}

// render serializes a node back to markup.
func render(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// innerHTML serializes a node's children only.
func innerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// normalize strips all whitespace so content comparison is
// whitespace-insensitive.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), "")
}
