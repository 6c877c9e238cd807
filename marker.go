package replogger

// Marker is the in-memory description of one document mutation, as
// handed to the logger by the storage engine. It is a closed tagged
// union of the three shapes the encoder understands: anything else is
// a hard encoder failure.
type Marker interface {
	isMarker()
}

// DeletionMarker describes a remove: key only, no body.
type DeletionMarker struct {
	Key string
}

// DocumentMarker describes an insert/update of a plain document: key
// plus a shaped body.
type DocumentMarker struct {
	Key  string
	Body ShapedDocument
}

// EdgeMarker describes an insert/update of an edge document: key, the
// from/to endpoints, plus a shaped body.
type EdgeMarker struct {
	Key  string
	From CollectionKey
	To   CollectionKey
	Body ShapedDocument
}

func (DeletionMarker) isMarker() {}
func (DocumentMarker) isMarker() {}
func (EdgeMarker) isMarker()     {}

// CollectionKey is a collection-id/document-key pair, as embedded in
// edge marker _from/_to fields.
type CollectionKey struct {
	CID uint64
	Key string
}
