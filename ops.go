package replogger

// LogDocument encodes and appends a single document-op event (insert,
// update or remove) for collection cid. If the logger is inactive it
// writes nothing and returns nil, unless encoding fails, in which case
// the encoding error is returned.
func (l *Logger) LogDocument(cid uint64, op DocumentOp) error {
	buf := NewBuffer(256)
	if err := EncodeDocument(buf, l.shaper, cid, op); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}

// LogTransaction encodes and appends one batched transaction record.
// Collections with an empty operation vector are skipped by the
// encoder.
func (l *Logger) LogTransaction(trx Transaction) error {
	buf := NewBuffer(1024)
	if err := EncodeTransaction(buf, l.shaper, trx); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}

// LogCreateCollection encodes and appends a collection-create event.
func (l *Logger) LogCreateCollection(descriptor JSONValue) error {
	buf := NewBuffer(256)
	if err := EncodeCollectionCreate(buf, descriptor); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}

// LogChangeCollectionProperties encodes and appends a collection-change
// event.
func (l *Logger) LogChangeCollectionProperties(descriptor JSONValue) error {
	buf := NewBuffer(256)
	if err := EncodeCollectionChange(buf, descriptor); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}

// LogDropCollection encodes and appends a collection-drop event.
func (l *Logger) LogDropCollection(cid uint64) error {
	buf := NewBuffer(64)
	if err := EncodeCollectionDrop(buf, cid); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}

// LogRenameCollection encodes and appends a collection-rename event.
func (l *Logger) LogRenameCollection(cid uint64, name string) error {
	buf := NewBuffer(64)
	if err := EncodeCollectionRename(buf, cid, name); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}

// LogCreateIndex encodes and appends an index-create event.
func (l *Logger) LogCreateIndex(cid uint64, descriptor JSONValue) error {
	buf := NewBuffer(256)
	if err := EncodeIndexCreate(buf, cid, descriptor); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}

// LogDropIndex encodes and appends an index-drop event.
func (l *Logger) LogDropIndex(cid uint64, iid uint64) error {
	buf := NewBuffer(64)
	if err := EncodeIndexDrop(buf, cid, iid); err != nil {
		return asReplError(err)
	}
	return l.appendEvent(buf)
}
