package extractor

import (
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements removed before body extraction so their text does not leak into the article.
var strippedElements = []string{
	"script", "style", "header", "footer", "nav", "aside", "form", "img", "figure",
	"figcaption", "iframe", "button", "input", "textarea", "select", "option",
}

// Title heading class combinations, checked in order.
var titleClassVariants = [][]string{
	{"text-waheed", "text-black-two"},
	{"text-40px", "text-waheed"},
}

var blankLinesRegexp = regexp.MustCompile(`(\s*\n\s*){3,}`)

// BodyStrategy pulls body text out of a page. An empty result means the strategy
// does not apply and the next one should be tried.
type BodyStrategy struct {
	Name    string
	Extract func(doc *goquery.Document) string
}

// Ordered from the most to the least specific.
var bodyStrategies = []BodyStrategy{
	{Name: "marker-comment", Extract: markerCommentBody},
	{Name: "article-tag", Extract: articleTagBody},
	{Name: "document-body", Extract: documentBody},
}

func classList(n *html.Node) []string {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return strings.Fields(attr.Val)
		}
	}

	return nil
}

func hasAllClasses(classes []string, required ...string) bool {
	for _, c := range required {
		if !slices.Contains(classes, c) {
			return false
		}
	}

	return true
}

func isElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

func isTitleHeading(n *html.Node, variant []string) bool {
	return isElement(n, "h1") && hasAllClasses(classList(n), variant...)
}

func isMarkerComment(n *html.Node) bool {
	return n.Type == html.CommentNode && strings.Contains(strings.ToLower(n.Data), "article body")
}

// isBodyParagraph matches the two known article paragraph styles.
func isBodyParagraph(n *html.Node) bool {
	if !isElement(n, "p") {
		return false
	}

	classes := classList(n)
	if !hasAllClasses(classes, "text-19px", "leading-loose") {
		return false
	}

	return slices.Contains(classes, "text-faseyha") || hasAllClasses(classes, "max-w-3xl", "text-black-two")
}

// isStopDivider matches the wide-viewport sidebar divider that follows the article text.
// "m1-10" is a typo that shipped in some page versions.
func isStopDivider(n *html.Node) bool {
	if !isElement(n, "div") {
		return false
	}

	classes := classList(n)

	return hasAllClasses(classes, "hidden", "lg:block") &&
		(slices.Contains(classes, "ml-10") || slices.Contains(classes, "m1-10"))
}

// documentOrder flattens the tree in pre-order, which is the order nodes appear in the markup.
func documentOrder(root *html.Node) []*html.Node {
	var nodes []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		nodes = append(nodes, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return nodes
}

// nodeText joins the trimmed non-empty text nodes under nodes with sep. Comments are skipped.
func nodeText(sep string, nodes ...*html.Node) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range nodes {
		walk(n)
	}

	return strings.Join(parts, sep)
}

func extractTitle(doc *goquery.Document) string {
	headings := doc.Find("h1").Nodes

	for _, variant := range titleClassVariants {
		for _, h := range headings {
			if isTitleHeading(h, variant) {
				return nodeText("", h)
			}
		}
	}

	return ""
}

func stripNonContent(doc *goquery.Document) {
	doc.Find(strings.Join(strippedElements, ", ")).Remove()
}

// markerCommentBody collects article paragraphs following the "article body" comment
// until the stop divider.
func markerCommentBody(doc *goquery.Document) string {
	if len(doc.Nodes) == 0 {
		return ""
	}

	nodes := documentOrder(doc.Nodes[0])

	start := slices.IndexFunc(nodes, isMarkerComment)
	if start < 0 {
		return ""
	}

	var paragraphs []string
	for _, n := range nodes[start+1:] {
		if n.Type != html.ElementNode {
			continue
		}
		if isStopDivider(n) {
			break
		}
		if isBodyParagraph(n) {
			if text := nodeText("\n", n); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

func articleTagBody(doc *goquery.Document) string {
	return nodeText("\n", doc.Find("article").First().Nodes...)
}

func documentBody(doc *goquery.Document) string {
	if body := doc.Find("body").First(); body.Length() > 0 {
		if text := nodeText("\n", body.Nodes...); text != "" {
			return text
		}
	}

	return nodeText("\n", doc.Nodes...)
}

func cleanBodyText(text string) string {
	return strings.TrimSpace(blankLinesRegexp.ReplaceAllString(text, "\n\n"))
}
