package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mihaaru-translate-bot/config"
)

const markerPage = `<!DOCTYPE html>
<html>
<head><title>ignored</title><style>.x{}</style></head>
<body>
<header><h1 class="text-waheed text-black-two text-40px">  ދިވެހި ސުރުޚީ  </h1></header>
<main>
  <!-- Article Body -->
  <div>
    <p class="text-19px leading-loose text-faseyha">First</p>
    <p class="text-19px leading-loose text-faseyha">Second<br>line</p>
    <script>var leaked = true;</script>
    <p class="text-19px leading-loose text-faseyha">Third</p>
    <p class="text-19px">Not an article paragraph</p>
  </div>
  <div class="hidden lg:block ml-10"><p class="text-19px leading-loose text-faseyha">Sidebar</p></div>
  <p class="text-19px leading-loose text-faseyha">Fourth</p>
</main>
</body>
</html>`

func TestExtractFromHTML_MarkerComment(t *testing.T) {
	article, err := ExtractFromHTML(markerPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Title != "ދިވެހި ސުރުޚީ" {
		t.Fatalf("unexpected title: %q", article.Title)
	}

	expected := "First\n\nSecond\nline\n\nThird"
	if article.Text != expected {
		t.Fatalf("unexpected body:\nexpected: %q\nactual:   %q", expected, article.Text)
	}
}

func TestExtractFromHTML_AlternateParagraphAndDividerVariants(t *testing.T) {
	page := `<html><body>
<h1 class="text-40px text-waheed">Title B</h1>
<!-- article body start -->
<p class="text-19px leading-loose max-w-3xl text-black-two">Alpha</p>
<p class="text-19px leading-loose max-w-3xl">Missing a class</p>
<div class="lg:block hidden m1-10"></div>
<p class="text-19px leading-loose text-faseyha">After divider</p>
</body></html>`

	article, err := ExtractFromHTML(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Title != "Title B" {
		t.Fatalf("unexpected title: %q", article.Title)
	}
	if article.Text != "Alpha" {
		t.Fatalf("unexpected body: %q", article.Text)
	}
}

func TestExtractFromHTML_TitleVariantOrder(t *testing.T) {
	page := `<html><body>
<h1 class="text-40px text-waheed">Second variant</h1>
<h1 class="text-waheed text-black-two">First variant</h1>
<article>Body text</article>
</body></html>`

	article, err := ExtractFromHTML(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Title != "First variant" {
		t.Fatalf("first variant must win regardless of position, got %q", article.Title)
	}
}

func TestExtractFromHTML_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		title string
		body  string
	}{
		{
			name: "article tag",
			page: `<html><body><nav>Menu</nav><article><p>Article one</p><figure>Caption</figure><p>Article two</p></article><p>Outside</p></body></html>`,
			body: "Article one\nArticle two",
		},
		{
			name: "marker without paragraphs falls back to article",
			page: `<html><body><!-- article body --><div>Loose</div><article>Inside article</article></body></html>`,
			body: "Inside article",
		},
		{
			name: "document body",
			page: `<html><body><footer>Footer</footer><div>Body one</div><div>Body two</div><script>x()</script></body></html>`,
			body: "Body one\nBody two",
		},
		{
			name:  "title only",
			page:  `<html><body><h1 class="text-waheed text-black-two">Only title</h1></body></html>`,
			title: "Only title",
			body:  "Only title",
		},
		{
			name: "blank lines collapsed",
			page: "<html><body><article><div>One</div>\n\n\n\n<div>\n</div><div>Two</div></article></body></html>",
			body: "One\nTwo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article, err := ExtractFromHTML(tt.page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if article.Title != tt.title {
				t.Fatalf("unexpected title: %q", article.Title)
			}
			if article.Text != tt.body {
				t.Fatalf("unexpected body:\nexpected: %q\nactual:   %q", tt.body, article.Text)
			}
		})
	}
}

func TestExtractFromHTML_Empty(t *testing.T) {
	pages := []string{
		"",
		`<html><body><script>only()</script><nav>nav</nav></body></html>`,
	}

	for _, page := range pages {
		article, err := ExtractFromHTML(page)
		if !errors.Is(err, ErrExtractFailed) {
			t.Fatalf("expected ErrExtractFailed for %q, got %+v, %v", page, article, err)
		}
	}
}

func TestExtractFromHTML_MalformedMarkup(t *testing.T) {
	article, err := ExtractFromHTML(`<p>unclosed <b>bold <div>text`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Text != "unclosed\nbold\ntext" {
		t.Fatalf("unexpected body: %q", article.Text)
	}
}

func TestCleanBodyText(t *testing.T) {
	tests := map[string]string{
		"  a\n\n\n\nb  ":    "a\n\nb",
		"a\n \n\t\n  b":     "a\n\nb",
		"a\n\nb":            "a\n\nb",
		"\n\n\nonly\n\n\n ": "only",
	}

	for input, expected := range tests {
		if got := cleanBodyText(input); got != expected {
			t.Fatalf("cleanBodyText(%q): expected %q got %q", input, expected, got)
		}
	}
}

func TestMihaaruExtractor_GetArticleFromUrl(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(markerPage))
	}))
	defer server.Close()

	ext := NewMihaaruExtractor(NewFetcherWithClient(server.Client()))

	article, err := ext.GetArticleFromUrl(context.Background(), server.URL+"/news/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Url != server.URL+"/news/1" {
		t.Fatalf("unexpected url: %s", article.Url)
	}
	if article.Text == "" {
		t.Fatalf("expected body text")
	}

	_, err = ext.GetArticleFromUrl(context.Background(), server.URL+"/missing")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed for 404, got %v", err)
	}
}

func TestFetcher_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), url)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestNew(t *testing.T) {
	fetcher := NewFetcher(0)

	tests := map[string]string{
		config.ExtractorMihaaru:     "*extractor.MihaaruExtractor",
		config.ExtractorReadability: "*extractor.ReadabilityExtractor",
		config.ExtractorGoOse:       "*extractor.GoOseExtractor",
	}

	for backend, want := range tests {
		ext, err := New(backend, fetcher)
		if err != nil {
			t.Fatalf("New(%q) returned error: %v", backend, err)
		}
		if got := fmt.Sprintf("%T", ext); got != want {
			t.Fatalf("New(%q) returned %s, expected %s", backend, got, want)
		}
	}

	if _, err := New("unknown", fetcher); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
