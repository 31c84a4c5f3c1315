package store

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bookclub/internal/book"
)

// Field names of a record in the JSON document tree. They match the
// spreadsheet headers.
const (
	fieldPosition    = "Nr"
	fieldAuthor      = "Autor"
	fieldTitle       = "Tytuł"
	fieldGenre       = "Dziedzina"
	fieldContributor = "Wrzucający"
	fieldDate        = "Data"
	fieldReview      = "Recenzja"
)

// TreeKind tells which shape a document tree was stored in.
type TreeKind int

const (
	TreeEmpty TreeKind = iota
	// TreeList is a JSON array; null entries are holes left by deleted keys.
	TreeList
	// TreeMap is a JSON object keyed by time-ordered push keys.
	TreeMap
)

func (k TreeKind) String() string {
	switch k {
	case TreeList:
		return "list"
	case TreeMap:
		return "map"
	default:
		return "empty"
	}
}

// Tree is the record tree of the document store, either a list or a map.
type Tree struct {
	Kind TreeKind
	List []json.RawMessage
	Map  map[string]json.RawMessage
}

// DecodeTree parses a stored document. An empty body or null is an empty tree.
func DecodeTree(data []byte) (Tree, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Tree{Kind: TreeEmpty}, nil
	}

	switch data[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return Tree{}, fmt.Errorf("decode record list: %w", err)
		}
		return Tree{Kind: TreeList, List: list}, nil
	case '{':
		var m map[string]json.RawMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return Tree{}, fmt.Errorf("decode record map: %w", err)
		}
		return Tree{Kind: TreeMap, Map: m}, nil
	default:
		return Tree{}, errors.New("decode records: document is neither a list nor a map")
	}
}

// Records normalizes the tree into store order: list order for lists, key
// order for maps (see compareKeys). Null entries are skipped.
func (t Tree) Records() ([]book.Book, error) {
	var raw []json.RawMessage
	switch t.Kind {
	case TreeList:
		raw = t.List
	case TreeMap:
		keys := make([]string, 0, len(t.Map))
		for k := range t.Map {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeys)
		for _, k := range keys {
			raw = append(raw, t.Map[k])
		}
	}

	out := make([]book.Book, 0, len(raw))
	for i, r := range raw {
		if isNull(r) {
			continue
		}
		b, err := decodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, b)
	}
	return positioned(out), nil
}

// Append adds b keeping the tree's shape. An empty tree becomes a list.
func (t *Tree) Append(b book.Book) error {
	raw, err := encodeRecord(b)
	if err != nil {
		return err
	}
	switch t.Kind {
	case TreeMap:
		key, err := pushKey()
		if err != nil {
			return err
		}
		t.Map[key] = raw
	case TreeList:
		t.List = append(t.List, raw)
	default:
		t.Kind = TreeList
		t.List = []json.RawMessage{raw}
	}
	return nil
}

// Encode serializes the tree.
func (t Tree) Encode() ([]byte, error) {
	switch t.Kind {
	case TreeList:
		return json.Marshal(t.List)
	case TreeMap:
		return json.Marshal(t.Map)
	default:
		return []byte("[]"), nil
	}
}

// compareKeys orders map keys the way the store lists them: integer row
// keys first in numeric order, then every other key as text.
func compareKeys(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// pushKey returns a key that sorts after every key generated before it.
func pushKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate push key: %w", err)
	}
	return id.String(), nil
}

func isNull(r json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(r), []byte("null"))
}

func decodeRecord(r json.RawMessage) (book.Book, error) {
	dec := json.NewDecoder(bytes.NewReader(r))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return book.Book{}, fmt.Errorf("decode record: %w", err)
	}
	return book.Book{
		Author:      text(fields[fieldAuthor]),
		Title:       text(fields[fieldTitle]),
		Genre:       text(fields[fieldGenre]),
		Contributor: text(fields[fieldContributor]),
		UploadedAt:  book.ParseSerial(fields[fieldDate]),
		Review:      text(fields[fieldReview]),
	}, nil
}

func encodeRecord(b book.Book) (json.RawMessage, error) {
	fields := map[string]any{
		fieldAuthor:      b.Author,
		fieldTitle:       b.Title,
		fieldGenre:       b.Genre,
		fieldContributor: b.Contributor,
		fieldReview:      b.Review,
	}
	if n := book.ToSerial(b.UploadedAt); n > 0 {
		fields[fieldDate] = n
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return raw, nil
}

// text coerces a loosely typed stored value to a string. Titles stored as
// numbers stay readable.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
