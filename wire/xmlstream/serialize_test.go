package xmlstream

import (
	"bytes"
	"sort"
	"testing"

	"github.com/protoforge/queryxml/wire/serde"
)

// The serializers below follow the exact calling conventions of generated
// procedures, so these tests pin the wire bytes those procedures produce at
// runtime: flattened siblings, wrapped items, per-item namespace repetition,
// optional-member omission, sorted map entries and unknown-variant aborts.

type note struct {
	Title *string
	Tags  []string
}

func serializeNote(v *note, el *Element) error {
	scope := el.Finish()
	if v.Title != nil {
		inner := scope.StartElement("Title").Finish()
		inner.Text(*v.Title)
		inner.Close()
	}
	if v.Tags != nil {
		if err := serializeTagList(v.Tags, scope, "Tags", "", ""); err != nil {
			return err
		}
	}
	scope.Close()
	return nil
}

func serializeTagList(v []string, scope *Scope, itemName, nsAttr, nsURI string) error {
	for i := range v {
		item := scope.StartElement(itemName)
		if nsAttr != "" {
			item.Attr(nsAttr, nsURI)
		}
		inner := item.Finish()
		inner.Text(v[i])
		inner.Close()
	}
	return nil
}

func serializeMetaMap(v map[string]string, scope *Scope, entryName, nsAttr, nsURI string) error {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		el := scope.StartElement(entryName)
		if nsAttr != "" {
			el.Attr(nsAttr, nsURI)
		}
		entry := el.Finish()
		kel := entry.StartElement("key").Finish()
		kel.Text(key)
		kel.Close()
		vel := entry.StartElement("value").Finish()
		vel.Text(v[key])
		vel.Close()
		entry.Close()
	}
	return nil
}

func serializeChoice(v any, el *Element) error {
	switch uv := v.(type) {
	case string:
		scope := el.Finish()
		inner := scope.StartElement("Str").Finish()
		inner.Text(uv)
		inner.Close()
		scope.Close()
	default:
		return &serde.UnknownUnionVariantError{Union: "Choice"}
	}
	return nil
}

func serializeNoteRoot(v *note) (string, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	root := w.StartElement("NoteResponse")
	if err := serializeNote(v, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func strptr(s string) *string { return &s }

func TestFlattenedItemsAreSiblings(t *testing.T) {
	got, err := serializeNoteRoot(&note{Tags: []string{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("serializeNoteRoot() error = %v", err)
	}
	want := `<NoteResponse><Tags>a</Tags><Tags>b</Tags><Tags>c</Tags></NoteResponse>`
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestWrappedItemsNestUnderWrapper(t *testing.T) {
	var buf bytes.Buffer
	scope := NewWriter(&buf).StartElement("NoteResponse").Finish()
	wrapper := scope.StartElement("Tags")
	items := wrapper.Finish()
	if err := serializeTagList([]string{"a", "b"}, items, "Item", "", ""); err != nil {
		t.Fatalf("serializeTagList() error = %v", err)
	}
	items.Close()
	scope.Close()

	want := `<NoteResponse><Tags><Item>a</Item><Item>b</Item></Tags></NoteResponse>`
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestFlattenedNamespaceRepeatedPerItem(t *testing.T) {
	var buf bytes.Buffer
	scope := NewWriter(&buf).StartElement("R").Finish()
	if err := serializeTagList([]string{"a", "b"}, scope, "Tags", "xmlns:ov", "urn:override"); err != nil {
		t.Fatalf("serializeTagList() error = %v", err)
	}
	scope.Close()

	want := `<R><Tags xmlns:ov="urn:override">a</Tags><Tags xmlns:ov="urn:override">b</Tags></R>`
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestAbsentOptionalMemberOmitted(t *testing.T) {
	absent, err := serializeNoteRoot(&note{})
	if err != nil {
		t.Fatalf("serializeNoteRoot() error = %v", err)
	}
	if want := `<NoteResponse></NoteResponse>`; absent != want {
		t.Fatalf("output = %q, want %q", absent, want)
	}

	present, err := serializeNoteRoot(&note{Title: strptr("hi")})
	if err != nil {
		t.Fatalf("serializeNoteRoot() error = %v", err)
	}
	if want := `<NoteResponse><Title>hi</Title></NoteResponse>`; present != want {
		t.Fatalf("output = %q, want %q", present, want)
	}
}

func TestMapEntriesSortedByKey(t *testing.T) {
	v := map[string]string{"c": "3", "a": "1", "b": "2"}
	want := `<R><entry><key>a</key><value>1</value></entry>` +
		`<entry><key>b</key><value>2</value></entry>` +
		`<entry><key>c</key><value>3</value></entry></R>`

	// repeat to catch map iteration order leaking into the output
	for i := 0; i < 8; i++ {
		var buf bytes.Buffer
		scope := NewWriter(&buf).StartElement("R").Finish()
		if err := serializeMetaMap(v, scope, "entry", "", ""); err != nil {
			t.Fatalf("serializeMetaMap() error = %v", err)
		}
		scope.Close()
		if got := buf.String(); got != want {
			t.Fatalf("output = %q, want %q", got, want)
		}
	}
}

func TestUnknownVariantWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	root := NewWriter(&buf).StartElement("Payload")
	err := serializeChoice(42, root)
	if err == nil {
		t.Fatalf("serializeChoice() did not fail on an unknown variant")
	}
	if buf.Len() != 0 {
		t.Fatalf("buffer = %q, want no partial output", buf.String())
	}
}
