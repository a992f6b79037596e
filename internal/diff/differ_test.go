package diff

import (
	"strings"
	"testing"
)

// TestCompare_IdenticalInputs verifies identical revisions produce no records
func TestCompare_IdenticalInputs(t *testing.T) {
	doc := `<h1>Guide</h1><p>Intro paragraph.</p><h2>Setup</h2><p>Install it.</p>`

	records, err := Compare(doc, doc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 0 {
		t.Fatalf("expected no records for identical inputs, got %d", len(records))
	}
}

// TestCompare_WhitespaceInsensitive verifies reformatted content is not a change
func TestCompare_WhitespaceInsensitive(t *testing.T) {
	oldDoc := `<p>hello   world</p>`
	newDoc := `<p>hello world</p>`

	records, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 0 {
		t.Fatalf("expected no records for whitespace-only difference, got %d", len(records))
	}
}

// TestCompare_EmptyPrevious verifies every top-level node of the new
// revision is reported as added when there is no prior revision
func TestCompare_EmptyPrevious(t *testing.T) {
	newDoc := `<h1>Title</h1><p>First.</p><p>Second.</p>`

	records, err := Compare("", newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 added records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Type != Added {
			t.Errorf("record %d: expected type added, got %s", i, rec.Type)
		}
		if rec.OriginalContent != "" {
			t.Errorf("record %d: expected empty original content, got %q", i, rec.OriginalContent)
		}
		if rec.ModifiedContent == "" {
			t.Errorf("record %d: expected serialized markup in modified content", i)
		}
	}
}

// TestCompare_EmptyNew verifies every top-level node of the old
// revision is reported as deleted
func TestCompare_EmptyNew(t *testing.T) {
	oldDoc := `<h1>Title</h1><p>Body.</p>`

	records, err := Compare(oldDoc, "")
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 deleted records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Type != Deleted {
			t.Errorf("record %d: expected type deleted, got %s", i, rec.Type)
		}
		if rec.ModifiedContent != "" {
			t.Errorf("record %d: expected empty modified content, got %q", i, rec.ModifiedContent)
		}
	}
}

// TestCompare_HeadingContext verifies a change under three nested
// heading levels carries heading-1/2/3 context and an empty heading-4
func TestCompare_HeadingContext(t *testing.T) {
	oldDoc := `<h1>Manual</h1><h2>Install</h2><h3>Linux</h3><p>apt-get install old</p>`
	newDoc := `<h1>Manual</h1><h2>Install</h2><h3>Linux</h3><p>apt-get install new</p>`

	records, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Type != Modified {
		t.Errorf("expected type modified, got %s", rec.Type)
	}
	if rec.Heading1 != "Manual" {
		t.Errorf("expected heading 1 'Manual', got %q", rec.Heading1)
	}
	if rec.Heading2 != "Install" {
		t.Errorf("expected heading 2 'Install', got %q", rec.Heading2)
	}
	if rec.Heading3 != "Linux" {
		t.Errorf("expected heading 3 'Linux', got %q", rec.Heading3)
	}
	if rec.Heading4 != "" {
		t.Errorf("expected empty heading 4, got %q", rec.Heading4)
	}
	if !strings.Contains(rec.OriginalContent, "old") {
		t.Errorf("expected original content to carry old markup, got %q", rec.OriginalContent)
	}
	if !strings.Contains(rec.ModifiedContent, "new") {
		t.Errorf("expected modified content to carry new markup, got %q", rec.ModifiedContent)
	}
}

// TestCompare_ShallowHeadingResetsDeeperLevels verifies a new
// heading-2 clears the running heading-3 context
func TestCompare_ShallowHeadingResetsDeeperLevels(t *testing.T) {
	oldDoc := `<h2>Install</h2><h3>Linux</h3><p>same</p><h2>Usage</h2><p>run it</p>`
	newDoc := `<h2>Install</h2><h3>Linux</h3><p>same</p><h2>Usage</h2><p>run it twice</p>`

	records, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Heading2 != "Usage" {
		t.Errorf("expected heading 2 'Usage', got %q", rec.Heading2)
	}
	if rec.Heading3 != "" {
		t.Errorf("expected heading 3 cleared by new heading 2, got %q", rec.Heading3)
	}
}

// TestCompare_ModifiedHeadingCarriesPreUpdateContext verifies a
// changed heading reports the context active before it took effect
func TestCompare_ModifiedHeadingCarriesPreUpdateContext(t *testing.T) {
	oldDoc := `<h2>Install</h2><h2>Usage</h2>`
	newDoc := `<h2>Install</h2><h2>Operating</h2>`

	records, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	// The record for the changed h2 still carries "Install"; the new
	// text only applies to records after it.
	if records[0].Heading2 != "Install" {
		t.Errorf("expected pre-update heading 2 'Install', got %q", records[0].Heading2)
	}
}

// TestCompare_TagMismatch verifies differing tag names produce a
// wholesale modified record without recursing into children
func TestCompare_TagMismatch(t *testing.T) {
	oldDoc := `<p>some text</p>`
	newDoc := `<ul><li>some text</li></ul>`

	records, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Type != Modified {
		t.Errorf("expected type modified, got %s", records[0].Type)
	}
	if !strings.Contains(records[0].OriginalContent, "<p>") {
		t.Errorf("expected original markup to carry the old tag, got %q", records[0].OriginalContent)
	}
	if !strings.Contains(records[0].ModifiedContent, "<ul>") {
		t.Errorf("expected modified markup to carry the new tag, got %q", records[0].ModifiedContent)
	}
}

// TestCompare_NestedAddition verifies a child present only in the new
// revision produces a nested added record
func TestCompare_NestedAddition(t *testing.T) {
	oldDoc := `<div><p>first</p></div>`
	newDoc := `<div><p>first</p><p>second</p></div>`

	records, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	// The outer div differs (one modified record), and its extra child
	// is reported as added.
	var added int
	for _, rec := range records {
		if rec.Type == Added {
			added++
			if !strings.Contains(rec.ModifiedContent, "second") {
				t.Errorf("expected added record for the new paragraph, got %q", rec.ModifiedContent)
			}
		}
	}
	if added != 1 {
		t.Fatalf("expected exactly 1 added record, got %d (total %d)", added, len(records))
	}
}

// TestCompare_Deterministic verifies repeated comparison of the same
// inputs yields identical output
func TestCompare_Deterministic(t *testing.T) {
	oldDoc := `<h1>A</h1><p>one</p><p>two</p>`
	newDoc := `<h1>A</h1><p>one changed</p>`

	first, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	second, err := Compare(oldDoc, newDoc)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected identical record counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
