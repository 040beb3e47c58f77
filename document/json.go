package document

import (
	"encoding/json"
	"fmt"
)

// The wire format tags each block with a "type" discriminator:
//
//	{"meta": {...}, "blocks": [{"type": "heading", "level": 1, "text": [...]}]}

type documentJSON struct {
	Meta   Meta              `json:"meta"`
	Blocks []json.RawMessage `json:"blocks"`
}

// metaJSON distinguishes an absent margin from an explicit zero so the
// default can be applied only when the field is missing.
type metaJSON struct {
	Meta
	MarginMM *float64 `json:"margin_mm"`
}

type blockHeader struct {
	Type string `json:"type"`
}

// Decode parses a JSON document and validates it.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document: decoding: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UnmarshalJSON decodes the tagged block union.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Meta   metaJSON          `json:"meta"`
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Meta = raw.Meta.Meta
	if raw.Meta.MarginMM != nil {
		d.Meta.MarginMM = *raw.Meta.MarginMM
	} else {
		d.Meta.MarginMM = DefaultMarginMM
	}
	if d.Meta.PageSize == "" {
		d.Meta.PageSize = PageA4
	}
	d.Blocks = make([]Block, 0, len(raw.Blocks))
	for i, rb := range raw.Blocks {
		b, err := unmarshalBlock(rb)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		d.Blocks = append(d.Blocks, b)
	}
	return nil
}

func unmarshalBlock(data []byte) (Block, error) {
	var hdr blockHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, err
	}
	var (
		b   Block
		err error
	)
	switch hdr.Type {
	case "heading":
		var v Heading
		err = json.Unmarshal(data, &v)
		b = v
	case "paragraph":
		var v Paragraph
		err = json.Unmarshal(data, &v)
		b = v
	case "caption":
		var v Caption
		err = json.Unmarshal(data, &v)
		b = v
	case "list":
		var v ListBlock
		err = json.Unmarshal(data, &v)
		b = v
	case "break":
		var v Break
		err = json.Unmarshal(data, &v)
		b = v
	case "page_break":
		b = PageBreak{}
	case "code":
		var v Code
		err = json.Unmarshal(data, &v)
		b = v
	case "formula":
		var v Formula
		err = json.Unmarshal(data, &v)
		b = v
	case "table":
		var v Table
		err = json.Unmarshal(data, &v)
		b = v
	case "image":
		var v Image
		err = json.Unmarshal(data, &v)
		b = v
	case "exercise":
		var v ExerciseArea
		err = json.Unmarshal(data, &v)
		b = v
	default:
		return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalid, hdr.Type)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// MarshalJSON encodes blocks with their "type" tag.
func (d Document) MarshalJSON() ([]byte, error) {
	raw := documentJSON{Meta: d.Meta}
	for _, b := range d.Blocks {
		data, err := marshalBlock(b)
		if err != nil {
			return nil, err
		}
		raw.Blocks = append(raw.Blocks, data)
	}
	return json.Marshal(raw)
}

func marshalBlock(b Block) ([]byte, error) {
	body, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	tag, err := json.Marshal(b.blockType())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}
