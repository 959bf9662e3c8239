package extract

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// UnknownCompany is returned when the page carries no usable name.
const UnknownCompany = "Unknown Company"

// CompanyName returns the company's display name from the page heading, the
// document title ("Name: Share Price ...") or the first heading that is not
// site chrome.
func (e *Extractor) CompanyName() string {
	if h, ok := e.doc.SelectOne("h1.company-name"); ok && h.Text() != "" {
		return h.Text()
	}
	if title, ok := e.doc.SelectOne("title"); ok && title.Text() != "" {
		name, _, _ := strings.Cut(title.Text(), ":")
		return strings.TrimSpace(name)
	}
	for _, h := range e.doc.Select("h1, h2, h3") {
		text := h.Text()
		if text != "" && !strings.Contains(strings.ToLower(text), "screener") {
			return text
		}
	}
	e.logger.Warn("could not extract company name")
	return UnknownCompany
}

// About returns the company profile blurb as Markdown, or "" when the page
// has none.
func (e *Extractor) About() (string, error) {
	node, ok := e.doc.SelectOne(".company-profile .about")
	if !ok {
		node, ok = e.doc.SelectOne(".about")
	}
	if !ok {
		return "", nil
	}
	inner, err := node.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read about section: %w", err)
	}
	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(inner)
	if err != nil {
		return "", fmt.Errorf("failed to convert about section to Markdown: %w", err)
	}
	return strings.TrimSpace(text), nil
}
