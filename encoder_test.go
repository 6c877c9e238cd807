package replogger

import "testing"

func TestEncodeDocument_insert(t *testing.T) {
	buf := NewBuffer(128)
	op := DocumentOp{
		Kind:   OpInsert,
		Key:    "a",
		Marker: DocumentMarker{Key: "a", Body: fields("x", "1")},
		Tick:   7,
	}
	if err := EncodeDocument(buf, fakeShaper{}, 42, op); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := string(buf.Bytes())
	want := `{"type":"document-insert","cid":"42","key":"a","doc":{"_key":"a","_rev":"7","x":1}}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeDocument_removeWithOldRev(t *testing.T) {
	buf := NewBuffer(128)
	op := DocumentOp{
		Kind:      OpRemove,
		Key:       "b",
		Marker:    DeletionMarker{Key: "b"},
		OldRev:    5,
		HasOldRev: true,
	}
	if err := EncodeDocument(buf, fakeShaper{}, 7, op); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := string(buf.Bytes())
	want := `{"type":"document-remove","cid":"7","key":"b","oldRev":"5"}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeDocument_edge(t *testing.T) {
	buf := NewBuffer(128)
	op := DocumentOp{
		Kind: OpInsert,
		Key:  "e1",
		Marker: EdgeMarker{
			Key:  "e1",
			From: CollectionKey{CID: 1, Key: "a"},
			To:   CollectionKey{CID: 2, Key: "b"},
			Body: fields("weight", "3"),
		},
		Tick: 9,
	}
	if err := EncodeDocument(buf, fakeShaper{}, 3, op); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := string(buf.Bytes())
	want := `{"type":"document-insert","cid":"3","key":"e1","doc":{"_key":"e1","_rev":"9","_from":"1/a","_to":"2/b","weight":3}}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeDocument_unrecognizedMarker(t *testing.T) {
	buf := NewBuffer(128)
	op := DocumentOp{Kind: OpInsert, Key: "x", Marker: nil}
	err := EncodeDocument(buf, fakeShaper{}, 1, op)
	if err == nil {
		t.Fatal("expected error for nil marker")
	}
	var e *Error
	if !asError(err, &e) || e.Status != StatusInternal {
		t.Fatalf("expected StatusInternal, got %v", err)
	}
}

func TestEncodeTransaction_batchesCollectionsInOrder(t *testing.T) {
	buf := NewBuffer(256)
	trx := Transaction{
		TID: 9,
		Collections: []CollectionOps{
			{CID: 1, Operations: []DocumentOp{
				{Kind: OpInsert, Key: "a", Marker: DocumentMarker{Key: "a", Body: fields()}, Tick: 1},
			}},
			{CID: 2, Operations: []DocumentOp{
				{Kind: OpRemove, Key: "b", Marker: DeletionMarker{Key: "b"}, OldRev: 5, HasOldRev: true},
			}},
			{CID: 3, Operations: nil}, // must be skipped entirely
		},
	}
	if err := EncodeTransaction(buf, fakeShaper{}, trx); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := string(buf.Bytes())
	want := `{"type":"transaction","tid":"9","collections":{` +
		`"cid":"1","operations":[{"type":"document-insert","key":"a","doc":{"_key":"a","_rev":"1"}}],` +
		`"cid":"2","operations":[{"type":"document-remove","key":"b","oldRev":"5"}]}}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeTransaction_allEmptyCollections(t *testing.T) {
	buf := NewBuffer(64)
	trx := Transaction{TID: 1, Collections: []CollectionOps{{CID: 1, Operations: nil}}}
	if err := EncodeTransaction(buf, fakeShaper{}, trx); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"type":"transaction","tid":"1","collections":{}}`
	if got := string(buf.Bytes()); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeCollectionCreate(t *testing.T) {
	buf := NewBuffer(128)
	desc := JSONObject{
		{Key: "name", Value: JSONString("users")},
		{Key: "waitForSync", Value: JSONBool(true)},
	}
	if err := EncodeCollectionCreate(buf, desc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"type":"collection-create","collection":{"name":"users","waitForSync":true}}`
	if got := string(buf.Bytes()); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeCollectionDropRenameAndIndex(t *testing.T) {
	cases := []struct {
		name string
		enc  func(*Buffer) error
		want string
	}{
		{"drop", func(b *Buffer) error { return EncodeCollectionDrop(b, 42) }, `{"type":"collection-drop","cid":"42"}`},
		{"rename", func(b *Buffer) error { return EncodeCollectionRename(b, 42, "newname") }, `{"type":"collection-rename","cid":"42","name":"newname"}`},
		{"index-create", func(b *Buffer) error {
			return EncodeIndexCreate(b, 42, JSONObject{{Key: "type", Value: JSONString("hash")}})
		}, `{"type":"index-create","cid":"42","index":{"type":"hash"}}`},
		{"index-drop", func(b *Buffer) error { return EncodeIndexDrop(b, 42, 99) }, `{"type":"index-drop","cid":"42","index":{"id":"99"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := NewBuffer(64)
			if err := tc.enc(buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got := string(buf.Bytes()); got != tc.want {
				t.Fatalf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

// asError is a small errors.As helper local to the test package to
// avoid importing "errors" in every test file that only needs this.
func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
