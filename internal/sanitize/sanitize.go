// Package sanitize neutralizes assistant-produced HTML before it reaches a
// widget log. The policy is a fixed deny-list: known script-bearing tags,
// inline handler/style attributes, and non-internal anchor targets are
// removed; everything else passes through. It is not a general-purpose
// sanitizer for anonymous input — it assumes a single semi-trusted upstream
// and does not cover data: URIs on non-anchors, srcdoc, formaction, or SVG
// vectors.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// deniedTags are removed together with their entire subtree.
var deniedTags = map[string]bool{
	"script": true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"style":  true,
}

// deniedAttr reports whether an attribute name is stripped from every
// element: inline event handlers (on*) and inline styles.
func deniedAttr(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "on") || lower == "style"
}

// allowedHref reports whether an anchor target may survive. Only
// root-relative internal links do; absolute URLs, protocol-relative URLs and
// javascript: URIs all fail the prefix check.
func allowedHref(value string) bool {
	return strings.HasPrefix(value, "/")
}

// Clean parses html as a body fragment, applies the deny-list policy and
// serializes the result. It is total: malformed markup degrades to whatever
// the tolerant parser recovers, never to an error. Clean is idempotent.
func Clean(fragment string) string {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		// ParseFragment only fails on reader errors, which a strings.Reader
		// never produces; degrade to empty output rather than leak input.
		return ""
	}

	var b strings.Builder
	for _, n := range nodes {
		if n.Type == html.ElementNode && deniedTags[n.Data] {
			continue
		}
		clean(n)
		if err := html.Render(&b, n); err != nil {
			return b.String()
		}
	}
	return b.String()
}

// clean walks one subtree, pruning denied elements and rewriting attributes.
func clean(n *html.Node) {
	if n.Type == html.ElementNode {
		n.Attr = cleanAttrs(n)
	}

	// Snapshot the next sibling before any removal so pruning a child does
	// not derail the walk.
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.ElementNode && deniedTags[child.Data] {
			n.RemoveChild(child)
		} else {
			clean(child)
		}
		child = next
	}
}

// cleanAttrs returns the surviving attributes for an element. The slice is
// rebuilt rather than mutated in place, so earlier removals can never shift
// later entries out from under the iteration.
func cleanAttrs(n *html.Node) []html.Attribute {
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if deniedAttr(attr.Key) {
			continue
		}
		if attr.Key == "href" && (n.DataAtom == atom.A || n.Data == "a") && !allowedHref(attr.Val) {
			// Downgrade the anchor to inert text; its children survive.
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}
