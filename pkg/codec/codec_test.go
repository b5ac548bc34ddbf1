package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testID     = strings.Repeat("ab", 32)
	testPubkey = strings.Repeat("01", 32)
	testSig    = strings.Repeat("cd", 64)
	testRef    = strings.Repeat("ef", 32)
)

func eventJSON(kind int, content, tags string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"%s","pubkey":"%s","created_at":1690000000,"kind":%d,"tags":%s,"content":%q,"sig":"%s"}`,
		testID, testPubkey, kind, tags, content, testSig))
}

func encode(t *testing.T, text []byte) []byte {
	t.Helper()
	buf := make([]byte, 1<<16)
	n, err := FromJSON(text, buf)
	require.NoError(t, err)
	require.NoError(t, Validate(buf[:n]))
	return buf[:n]
}

func tagsOf(data []byte) [][]Field {
	var out [][]Field
	off := TagsStart
	for i := 0; i < TagCount(data); i++ {
		var tag []Field
		for j := 0; j < TagFieldCount(data, off); j++ {
			tag = append(tag, TagField(data, off, j))
		}
		out = append(out, tag)
		off = NextTag(data, off)
	}
	return out
}

func TestFromJSON_Scalars(t *testing.T) {
	data := encode(t, eventJSON(1, "hello", "[]"))

	assert.Equal(t, testID, hex.EncodeToString(ID(data)))
	assert.Equal(t, testPubkey, hex.EncodeToString(Pubkey(data)))
	assert.Equal(t, testSig, hex.EncodeToString(Sig(data)))
	assert.Equal(t, uint32(1690000000), CreatedAt(data))
	assert.Equal(t, uint32(1), Kind(data))
	assert.Equal(t, "hello", string(Content(data)))
	assert.Equal(t, uint32(5), ContentLen(data))
	assert.Equal(t, 0, TagCount(data))
}

func TestFromJSON_Tags(t *testing.T) {
	tags := fmt.Sprintf(`[["e","%s"],["p","%s"],["t","nostr"],["e"],[],["r","%s"]]`,
		testRef, testPubkey, strings.ToUpper(testRef))
	data := encode(t, eventJSON(1, "x", tags))

	got := tagsOf(data)
	require.Len(t, got, 6)

	t.Run("event reference packs the id", func(t *testing.T) {
		require.Len(t, got[0], 2)
		assert.Equal(t, FieldString, got[0][0].Kind())
		assert.Equal(t, "e", got[0][0].String())
		assert.Equal(t, FieldID, got[0][1].Kind())
		assert.Equal(t, testRef, got[0][1].String())
		id, ok := got[0][1].ID()
		assert.True(t, ok)
		assert.Equal(t, testRef, hex.EncodeToString(id[:]))
	})

	t.Run("pubkey reference packs the key", func(t *testing.T) {
		assert.True(t, got[1][1].IsID())
		assert.True(t, got[1][1].Equal(testPubkey))
	})

	t.Run("plain text stays text", func(t *testing.T) {
		assert.Equal(t, FieldString, got[2][1].Kind())
		assert.Equal(t, "nostr", got[2][1].String())
		_, ok := got[2][1].ID()
		assert.False(t, ok)
	})

	t.Run("short and empty tags are kept", func(t *testing.T) {
		assert.Len(t, got[3], 1)
		assert.Len(t, got[4], 0)
	})

	t.Run("uppercase hex is not packed", func(t *testing.T) {
		assert.Equal(t, FieldString, got[5][1].Kind())
		assert.Equal(t, strings.ToUpper(testRef), got[5][1].String())
	})

	t.Run("first field is never packed", func(t *testing.T) {
		data := encode(t, eventJSON(1, "", fmt.Sprintf(`[["%s","%s"]]`, testRef, testRef)))
		tag := tagsOf(data)[0]
		assert.Equal(t, FieldString, tag[0].Kind())
		assert.Equal(t, FieldID, tag[1].Kind())
	})
}

func TestFromJSON_Escapes(t *testing.T) {
	data := encode(t, eventJSON(1, "line\n\"quoted\" é", `[["t","a\tb"]]`))

	assert.Equal(t, "line\n\"quoted\" é", string(Content(data)))
	assert.Equal(t, "a\tb", tagsOf(data)[0][1].String())
}

func TestFromJSON_Errors(t *testing.T) {
	buf := make([]byte, 1<<16)

	tests := []struct {
		name string
		text string
		want error
	}{
		{"not json", `hello`, ErrInvalidJSON},
		{"truncated", `{"id":"` + testID, ErrInvalidJSON},
		{"short id", strings.Replace(string(eventJSON(1, "", "[]")), testID, "abcd", 1), ErrInvalidField},
		{"bad hex", strings.Replace(string(eventJSON(1, "", "[]")), testID, strings.Repeat("zz", 32), 1), ErrInvalidField},
		{"negative kind", string(eventJSON(-1, "", "[]")), ErrInvalidField},
		{"kind overflow", string(eventJSON(1<<33, "", "[]")), ErrInvalidField},
		{"tags not array", string(eventJSON(1, "", `"x"`)), ErrInvalidField},
		{"tag not array", string(eventJSON(1, "", `["x"]`)), ErrInvalidField},
		{"field not string", string(eventJSON(1, "", `[["e",1]]`)), ErrInvalidField},
		{"missing content", fmt.Sprintf(`{"id":"%s","pubkey":"%s","created_at":1,"kind":1,"tags":[]}`, testID, testPubkey), ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := FromJSON([]byte(tt.text), buf)
			assert.Zero(t, n)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromJSON_BufferTooSmall(t *testing.T) {
	text := eventJSON(1, strings.Repeat("x", 4096), "[]")

	for _, size := range []int{0, 10, HeaderSize, 1024} {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			n, err := FromJSON(text, make([]byte, size))
			assert.Zero(t, n)
			assert.ErrorIs(t, err, ErrBufferTooSmall)
		})
	}
}

func TestFromJSON_SigOptional(t *testing.T) {
	text := fmt.Sprintf(`{"id":"%s","pubkey":"%s","created_at":1,"kind":7,"tags":null,"content":"+"}`, testID, testPubkey)
	data := encode(t, []byte(text))

	assert.Equal(t, make([]byte, SigSize), Sig(data))
	assert.Equal(t, 0, TagCount(data))

	ev := ToEvent(data)
	assert.Empty(t, ev.Sig)
	out, err := MarshalEvent(data)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"sig"`)
}

func repeatTag(n int, tag string) string {
	return "[" + strings.TrimSuffix(strings.Repeat(tag+",", n), ",") + "]"
}

// The tag and string regions share the buffer, so any mix of the two fits as
// long as the total does.
func TestFromJSON_FillsBuffer(t *testing.T) {
	long := strings.Repeat("x", 60000)
	tests := []struct {
		name string
		text []byte
		tags int
	}{
		{"many short tags", eventJSON(1, "", repeatTag(12000, `["t","a"]`)), 12000},
		{"many id tags", eventJSON(1, "", repeatTag(3000, `["e","`+testRef+`"]`)), 3000},
		{"few long strings", eventJSON(1, long, repeatTag(3, `["t","`+long+`"]`)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 2<<18)
			n, err := FromJSON(tt.text, buf)
			require.NoError(t, err)
			require.NoError(t, Validate(buf[:n]))
			want := append([]byte(nil), buf[:n]...)
			assert.Equal(t, tt.tags, TagCount(want))

			// Exactly the encoded size is enough.
			exact := make([]byte, n)
			m, err := FromJSON(tt.text, exact)
			require.NoError(t, err)
			assert.Equal(t, want, exact[:m])

			_, err = FromJSON(tt.text, make([]byte, n-1))
			assert.ErrorIs(t, err, ErrBufferTooSmall)
		})
	}
}

func TestBuilder_Size(t *testing.T) {
	buf := make([]byte, 4096)

	b := NewBuilder(buf)
	require.NoError(t, b.SetContent([]byte("hi")))
	n, err := b.Finish()
	require.NoError(t, err)
	// header + "hi\x00"
	assert.Equal(t, HeaderSize+3, n)

	b = NewBuilder(buf)
	require.NoError(t, b.SetContent([]byte("hi")))
	require.NoError(t, b.AddTag("t", "x"))
	n, err = b.Finish()
	require.NoError(t, err)
	// header + tag(4 + 2*4) + "hi\x00" + "\x01t" + "\x01x"
	assert.Equal(t, HeaderSize+12+3+2+2, n)
	assert.NoError(t, Validate(buf[:n]))
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("push without tag", func(t *testing.T) {
		b := NewBuilder(make([]byte, 1024))
		assert.ErrorIs(t, b.PushTagString([]byte("e")), ErrNoTag)
		_, err := b.Finish()
		assert.ErrorIs(t, err, ErrNoTag)
	})

	t.Run("content twice", func(t *testing.T) {
		b := NewBuilder(make([]byte, 1024))
		require.NoError(t, b.SetContent([]byte("a")))
		assert.ErrorIs(t, b.SetContent([]byte("b")), ErrInvalidField)
	})

	t.Run("wrong id size", func(t *testing.T) {
		b := NewBuilder(make([]byte, 1024))
		assert.ErrorIs(t, b.SetID([]byte{1, 2, 3}), ErrInvalidField)
	})

	t.Run("tag region full", func(t *testing.T) {
		b := NewBuilder(make([]byte, HeaderSize+64))
		var err error
		for i := 0; i < 64 && err == nil; i++ {
			err = b.AddTag("t", "x")
		}
		assert.ErrorIs(t, err, ErrBufferTooSmall)
	})
}

func TestBuilder_ReusedBuffer(t *testing.T) {
	buf := make([]byte, 4096)
	for i := range buf {
		buf[i] = 0xff
	}

	b := NewBuilder(buf)
	require.NoError(t, b.AddTag("e"))
	n, err := b.Finish()
	require.NoError(t, err)

	data := buf[:n]
	require.NoError(t, Validate(data))
	assert.Equal(t, make([]byte, IDSize), ID(data))
	assert.Equal(t, uint32(0), Kind(data))
	assert.Equal(t, uint32(0), ContentLen(data))
	assert.Equal(t, 1, TagCount(data))
}

func TestToEvent_RoundTrip(t *testing.T) {
	tags := fmt.Sprintf(`[["e","%s","wss://relay","reply"],["p","%s"],["t","go"]]`, testRef, testPubkey)
	data := encode(t, eventJSON(1, "round trip", tags))

	ev := ToEvent(data)
	assert.Equal(t, testID, ev.ID)
	assert.Equal(t, testPubkey, ev.Pubkey)
	assert.Equal(t, testSig, ev.Sig)
	assert.Equal(t, uint32(1690000000), ev.CreatedAt)
	assert.Equal(t, "round trip", ev.Content)
	assert.Equal(t, [][]string{
		{"e", testRef, "wss://relay", "reply"},
		{"p", testPubkey},
		{"t", "go"},
	}, ev.Tags)

	buf := make([]byte, 4096)
	n, err := Encode(ev, buf)
	require.NoError(t, err)
	assert.Equal(t, data, buf[:n])
}
