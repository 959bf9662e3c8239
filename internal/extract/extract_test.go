package extract

import (
	"testing"

	"finscreen/internal/dom"
)

func mustDoc(t *testing.T, s string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func newExtractor(t *testing.T, s string) *Extractor {
	t.Helper()
	return New(mustDoc(t, s))
}
