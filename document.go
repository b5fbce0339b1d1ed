package fifotax

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Document is the unit of persistence: an activity log together with
// the exchange-rate cache accumulated while converting it. It is read
// and written as a whole.
type Document struct {
	Activities []Activity `json:"activities"`
	Rates      Rates      `json:"rates"`
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{Rates: make(Rates)}
}

// EncodeDocument writes the whole document to w, indented for
// inspection and git-friendly diffs.
func EncodeDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// DecodeDocument reads a whole document from r. A bare JSON array of
// activities, the format of early converters, is still accepted; it
// simply carries an empty rate cache.
func DecodeDocument(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	first, err := firstByte(br)
	if err != nil {
		return nil, fmt.Errorf("cannot read document: %w", err)
	}

	doc := NewDocument()
	dec := json.NewDecoder(br)
	if first == '[' {
		if err := dec.Decode(&doc.Activities); err != nil {
			return nil, fmt.Errorf("cannot parse activity list: %w", err)
		}
		return doc, nil
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("cannot parse document: %w", err)
	}
	if doc.Rates == nil {
		doc.Rates = make(Rates)
	}
	return doc, nil
}

// firstByte peeks past leading whitespace without consuming anything.
func firstByte(br *bufio.Reader) (byte, error) {
	for i := 1; ; i++ {
		peeked, err := br.Peek(i)
		if err != nil {
			return 0, err
		}
		switch c := peeked[i-1]; c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c, nil
		}
	}
}

// LoadDocuments glob-expands the patterns and merges all matched
// documents into one: activities concatenated and sorted, rate caches
// merged. A pattern matching nothing is an error.
func LoadDocuments(patterns ...string) (*Document, error) {
	merged := NewDocument()
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, filename := range matches {
			doc, err := readDocument(filename)
			if err != nil {
				return nil, err
			}
			merged.Activities = append(merged.Activities, doc.Activities...)
			merged.Rates.Merge(doc.Rates)
		}
	}
	SortActivities(merged.Activities)
	return merged, nil
}

func readDocument(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()
	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", filename, err)
	}
	return doc, nil
}

// WriteDocument encodes the document into a file, replacing it.
func WriteDocument(filename string, doc *Document) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", filename, err)
	}
	defer f.Close()
	if err := EncodeDocument(f, doc); err != nil {
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	return nil
}

// Normalize converts every monetary value in the document to the
// domestic currency, consulting the document's own rate cache before
// the resolver's source. Newly resolved quotations are added back to
// the document, so the next run needs no external queries.
func (d *Document) Normalize(r *Resolver) error {
	r.Cache().Merge(d.Rates)
	for i, activity := range d.Activities {
		normalized, err := activity.Normalize(r)
		if err != nil {
			return fmt.Errorf("cannot convert %s %q on %s: %w",
				activity.Operation.What(), activity.Symbol, activity.Date(), err)
		}
		d.Activities[i] = normalized
	}
	d.Rates.Merge(r.Cache())
	return nil
}
