package note

// Kind numbers from the NIPs that NoteDB classifies.
const (
	KindMetadata       uint32 = 0
	KindText           uint32 = 1
	KindContacts       uint32 = 3
	KindDM             uint32 = 4
	KindDelete         uint32 = 5
	KindBoost          uint32 = 6
	KindLike           uint32 = 7
	KindChannelMessage uint32 = 42
	KindZap            uint32 = 9735
	KindLongform       uint32 = 30023
)

// MaxShortContent is the content size above which a non-longform note is
// considered too big to show.
const MaxShortContent = 16000

var kindNames = map[uint32]string{
	KindMetadata:       "metadata",
	KindText:           "text",
	KindContacts:       "contacts",
	KindDM:             "dm",
	KindDelete:         "delete",
	KindBoost:          "boost",
	KindLike:           "like",
	KindChannelMessage: "chat",
	KindZap:            "zap",
	KindLongform:       "longform",
}

// KnownKind returns the name of the note's kind, or ok == false.
func (n *Note) KnownKind() (name string, ok bool) {
	name, ok = kindNames[n.Kind()]
	return name, ok
}

// IsTextlike reports kinds whose content is prose meant for display.
func (n *Note) IsTextlike() bool {
	switch n.Kind() {
	case KindText, KindChannelMessage, KindLongform:
		return true
	}
	return false
}

func (n *Note) TooBig() bool {
	return n.Kind() != KindLongform && n.ContentLen() > MaxShortContent
}

func (n *Note) ShouldShow() bool {
	return !n.TooBig()
}

// BoostedID returns the id of the note a boost points at. Only boosts with
// empty content qualify; the target is the first "e" reference stored as an
// identifier.
func (n *Note) BoostedID() ([32]byte, bool) {
	if n.Kind() != KindBoost || n.ContentLen() != 0 {
		return [32]byte{}, false
	}
	for id := range n.ReferencedIDs().IDs() {
		return id, true
	}
	return [32]byte{}, false
}
