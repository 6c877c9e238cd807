package replogger

import "errors"

// errUnrecognizedMarker is returned (wrapped as StatusInternal) when a
// Marker value is none of DeletionMarker/DocumentMarker/EdgeMarker.
var errUnrecognizedMarker = errors.New("unrecognized marker discriminator")

// appendCollectionKey appends a "<cid>/<key>" string literal, as used
// for edge marker _from/_to fields.
func appendCollectionKey(buf *Buffer, ck CollectionKey) {
	if buf.Err() != nil {
		return
	}
	buf.appendByte('"')
	buf.appendDecimal(ck.CID)
	buf.appendByte('/')
	buf.appendRaw(ck.Key)
	buf.appendByte('"')
}

// encodeDocumentOp appends one document-op record (or, when embedded
// in a transaction, one transaction-operations-array element) into buf.
// includeCID controls whether the standalone "cid" field is emitted —
// omitted when the op is nested under its parent collection group.
func encodeDocumentOp(buf *Buffer, shaper Shaper, cid uint64, op DocumentOp, includeCID bool) {
	if buf.Err() != nil {
		return
	}

	buf.appendRaw(`{"type":"document-`)
	buf.appendRaw(op.Kind.String())
	buf.appendByte('"')
	if includeCID {
		buf.appendRaw(`,"cid":`)
		buf.appendQuotedDecimal(cid)
	}
	buf.appendRaw(`,"key":`)
	buf.appendQuoted(op.Key)
	if op.HasOldRev {
		buf.appendRaw(`,"oldRev":`)
		buf.appendQuotedDecimal(op.OldRev)
	}

	switch m := op.Marker.(type) {
	case DeletionMarker:
		buf.appendByte('}')
	case DocumentMarker:
		buf.appendRaw(`,"doc":{"_key":`)
		buf.appendQuoted(m.Key)
		buf.appendRaw(`,"_rev":`)
		buf.appendQuotedDecimal(op.Tick)
		if err := shaper.Stringify(buf, m.Body, false); err != nil {
			buf.fail(internalErr("encodeDocumentOp", err))
			return
		}
		buf.appendRaw("}}")
	case EdgeMarker:
		buf.appendRaw(`,"doc":{"_key":`)
		buf.appendQuoted(m.Key)
		buf.appendRaw(`,"_rev":`)
		buf.appendQuotedDecimal(op.Tick)
		buf.appendRaw(`,"_from":`)
		appendCollectionKey(buf, m.From)
		buf.appendRaw(`,"_to":`)
		appendCollectionKey(buf, m.To)
		if err := shaper.Stringify(buf, m.Body, false); err != nil {
			buf.fail(internalErr("encodeDocumentOp", err))
			return
		}
		buf.appendRaw("}}")
	default:
		buf.fail(internalErr("encodeDocumentOp", errUnrecognizedMarker))
	}
}

// EncodeDocument encodes a standalone document insert/update/remove
// event into buf.
func EncodeDocument(buf *Buffer, shaper Shaper, cid uint64, op DocumentOp) error {
	encodeDocumentOp(buf, shaper, cid, op, true)
	return buf.Err()
}

// EncodeTransaction encodes a finalized transaction into a single
// batched record: `{"type":"transaction","tid":"...","collections":{...}}`
// with one inline "cid"/"operations" pair per non-empty collection
// group, in trx.Collections iteration order.
func EncodeTransaction(buf *Buffer, shaper Shaper, trx Transaction) error {
	if buf.Err() != nil {
		return buf.Err()
	}

	buf.appendRaw(`{"type":"transaction","tid":`)
	buf.appendQuotedDecimal(trx.TID)
	buf.appendRaw(`,"collections":{`)

	first := true
	for _, coll := range trx.Collections {
		if len(coll.Operations) == 0 {
			continue
		}
		if !first {
			buf.appendByte(',')
		}
		first = false

		buf.appendRaw(`"cid":`)
		buf.appendQuotedDecimal(coll.CID)
		buf.appendRaw(`,"operations":[`)
		for i, op := range coll.Operations {
			if i > 0 {
				buf.appendByte(',')
			}
			encodeDocumentOp(buf, shaper, coll.CID, op, false)
		}
		buf.appendByte(']')
	}

	buf.appendRaw("}}")
	return buf.Err()
}

// EncodeCollectionCreate encodes a collection-create event. descriptor
// is the verbatim collection JSON.
func EncodeCollectionCreate(buf *Buffer, descriptor JSONValue) error {
	return encodeCollectionCreateOrChange(buf, "create", descriptor)
}

// EncodeCollectionChange encodes a collection-change event.
func EncodeCollectionChange(buf *Buffer, descriptor JSONValue) error {
	return encodeCollectionCreateOrChange(buf, "change", descriptor)
}

func encodeCollectionCreateOrChange(buf *Buffer, kind string, descriptor JSONValue) error {
	if buf.Err() != nil {
		return buf.Err()
	}
	buf.appendRaw(`{"type":"collection-`)
	buf.appendRaw(kind)
	buf.appendRaw(`","collection":`)
	appendJSONValue(buf, descriptor)
	buf.appendByte('}')
	return buf.Err()
}

// EncodeCollectionDrop encodes a collection-drop event.
func EncodeCollectionDrop(buf *Buffer, cid uint64) error {
	if buf.Err() != nil {
		return buf.Err()
	}
	buf.appendRaw(`{"type":"collection-drop","cid":`)
	buf.appendQuotedDecimal(cid)
	buf.appendByte('}')
	return buf.Err()
}

// EncodeCollectionRename encodes a collection-rename event.
func EncodeCollectionRename(buf *Buffer, cid uint64, name string) error {
	if buf.Err() != nil {
		return buf.Err()
	}
	buf.appendRaw(`{"type":"collection-rename","cid":`)
	buf.appendQuotedDecimal(cid)
	buf.appendRaw(`,"name":`)
	buf.appendQuoted(name)
	buf.appendByte('}')
	return buf.Err()
}

// EncodeIndexCreate encodes an index-create event. descriptor is the
// verbatim index JSON.
func EncodeIndexCreate(buf *Buffer, cid uint64, descriptor JSONValue) error {
	if buf.Err() != nil {
		return buf.Err()
	}
	buf.appendRaw(`{"type":"index-create","cid":`)
	buf.appendQuotedDecimal(cid)
	buf.appendRaw(`,"index":`)
	appendJSONValue(buf, descriptor)
	buf.appendByte('}')
	return buf.Err()
}

// EncodeIndexDrop encodes an index-drop event.
func EncodeIndexDrop(buf *Buffer, cid uint64, iid uint64) error {
	if buf.Err() != nil {
		return buf.Err()
	}
	buf.appendRaw(`{"type":"index-drop","cid":`)
	buf.appendQuotedDecimal(cid)
	buf.appendRaw(`,"index":{"id":`)
	buf.appendQuotedDecimal(iid)
	buf.appendRaw("}}")
	return buf.Err()
}
