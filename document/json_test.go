package document

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

const sampleJSON = `{
	"meta": {"title": "Physics Notes", "author": "R.F.", "page_size": "A4", "margin_mm": 15},
	"blocks": [
		{"type": "heading", "level": 1, "text": [{"text": "Waves"}]},
		{"type": "paragraph", "text": [
			{"text": "Plain, "},
			{"text": "bold", "bold": true},
			{"text": " and ", "highlight": "yellow"},
			{"text": "orange", "color": "orange"}
		]},
		{"type": "list", "variant": "task", "items": [
			{"text": [{"text": "done"}], "checked": true},
			{"text": [{"text": "todo"}], "children": [{"text": [{"text": "sub"}]}]}
		]},
		{"type": "break", "strength": "strong"},
		{"type": "page_break"},
		{"type": "code", "language": "go", "content": "x := 1\ny := 2"},
		{"type": "formula", "latex": "E = mc^2"},
		{"type": "table", "columns": 2, "widths": [0.3, 0.7], "rows": [
			{"cells": [[{"text": "k"}], [{"text": "v"}]]}
		]},
		{"type": "image", "src": "diagram.png", "width_mm": 80, "fit": "contain"},
		{"type": "exercise", "variant": "dotgrid", "height_mm": 60}
	]
}`

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Meta.Title != "Physics Notes" || doc.Meta.MarginMM != 15 {
		t.Fatalf("meta = %+v", doc.Meta)
	}
	if len(doc.Blocks) != 10 {
		t.Fatalf("got %d blocks, want 10", len(doc.Blocks))
	}

	h, ok := doc.Blocks[0].(Heading)
	if !ok || h.Level != 1 || h.Text[0].Text != "Waves" {
		t.Fatalf("block 0 = %#v", doc.Blocks[0])
	}
	p, ok := doc.Blocks[1].(Paragraph)
	if !ok || len(p.Text) != 4 {
		t.Fatalf("block 1 = %#v", doc.Blocks[1])
	}
	if !p.Text[1].Bold || p.Text[2].Highlight != "yellow" || p.Text[3].Color != "orange" {
		t.Fatalf("span styling lost: %+v", p.Text)
	}
	l, ok := doc.Blocks[2].(ListBlock)
	if !ok || l.Variant != ListTask || !l.Items[0].Checked || len(l.Items[1].Children) != 1 {
		t.Fatalf("block 2 = %#v", doc.Blocks[2])
	}
	if _, ok := doc.Blocks[4].(PageBreak); !ok {
		t.Fatalf("block 4 = %#v", doc.Blocks[4])
	}
	c, ok := doc.Blocks[5].(Code)
	if !ok || c.Content != "x := 1\ny := 2" {
		t.Fatalf("block 5 = %#v", doc.Blocks[5])
	}
	f, ok := doc.Blocks[6].(Formula)
	if !ok || f.LaTeX != "E = mc^2" {
		t.Fatalf("block 6 = %#v", doc.Blocks[6])
	}
	tb, ok := doc.Blocks[7].(Table)
	if !ok || tb.Columns != 2 || len(tb.Widths) != 2 {
		t.Fatalf("block 7 = %#v", doc.Blocks[7])
	}
	img, ok := doc.Blocks[8].(Image)
	if !ok || img.Src != "diagram.png" || img.WidthMM != 80 {
		t.Fatalf("block 8 = %#v", doc.Blocks[8])
	}
	ex, ok := doc.Blocks[9].(ExerciseArea)
	if !ok || ex.Variant != ExerciseDotGrid || ex.HeightMM != 60 {
		t.Fatalf("block 9 = %#v", doc.Blocks[9])
	}
}

func TestDecodeDefaults(t *testing.T) {
	doc, err := Decode([]byte(`{"meta": {}, "blocks": []}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Meta.PageSize != PageA4 {
		t.Fatalf("page size = %q, want %q", doc.Meta.PageSize, PageA4)
	}
	if doc.Meta.MarginMM != DefaultMarginMM {
		t.Fatalf("margin = %v, want %v", doc.Meta.MarginMM, DefaultMarginMM)
	}
}

func TestDecodeExplicitZeroMargin(t *testing.T) {
	doc, err := Decode([]byte(`{"meta": {"margin_mm": 0}, "blocks": []}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Meta.MarginMM != 0 {
		t.Fatalf("margin = %v, want explicit 0 preserved", doc.Meta.MarginMM)
	}
}

func TestDecodeUnknownBlockType(t *testing.T) {
	_, err := Decode([]byte(`{"meta": {}, "blocks": [{"type": "hologram"}]}`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestDecodeInvalidDocument(t *testing.T) {
	_, err := Decode([]byte(`{"meta": {}, "blocks": [{"type": "heading", "level": 9, "text": []}]}`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := Decode(data)
	if err != nil {
		t.Fatalf("re-Decode: %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Fatalf("round trip changed the document:\n before %#v\n after  %#v", doc, again)
	}
}
