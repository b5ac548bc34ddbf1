package note

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		kind     int
		content  string
		name     string
		known    bool
		textlike bool
		show     bool
	}{
		{kind: 1, content: "hi", name: "text", known: true, textlike: true, show: true},
		{kind: 42, content: "hi", name: "chat", known: true, textlike: true, show: true},
		{kind: 30023, content: strings.Repeat("x", 20000), name: "longform", known: true, textlike: true, show: true},
		{kind: 1, content: strings.Repeat("x", 16001), name: "text", known: true, textlike: true, show: false},
		{kind: 1, content: strings.Repeat("x", 16000), name: "text", known: true, textlike: true, show: true},
		{kind: 7, content: "+", name: "like", known: true},
		{kind: 31337, content: "", show: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("kind %d len %d", tt.kind, len(tt.content)), func(t *testing.T) {
			n := mustOwned(t, eventJSON(tt.kind, tt.content, "[]"))

			name, known := n.KnownKind()
			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.textlike, n.IsTextlike())
			if tt.known && tt.kind == 7 {
				return
			}
			assert.Equal(t, tt.show, n.ShouldShow())
			assert.Equal(t, !tt.show, n.TooBig())
		})
	}
}

func TestBoostedID(t *testing.T) {
	tests := []struct {
		name    string
		kind    int
		content string
		tags    string
		want    string
	}{
		{"boost", 6, "", fmt.Sprintf(`[["p","%s"],["e","%s"]]`, testRef2, testRef1), testRef1},
		{"boost skips text reference", 6, "", fmt.Sprintf(`[["e","bogus"],["e","%s"]]`, testRef3), testRef3},
		{"boost with embedded event", 6, "{}", fmt.Sprintf(`[["e","%s"]]`, testRef1), ""},
		{"boost without reference", 6, "", "[]", ""},
		{"not a boost", 1, "", fmt.Sprintf(`[["e","%s"]]`, testRef1), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustOwned(t, eventJSON(tt.kind, tt.content, tt.tags))

			id, ok := n.BoostedID()
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, hex.EncodeToString(id[:]))
		})
	}
}
