package object

import (
	"bytes"
	"io"
	"strings"

	"github.com/blakesmith/ar"
)

var arMagic = []byte("!<arch>\n")

// Open parses a byte buffer into zero or more containers, appending each to
// the store. An archive buffer contributes one container per parsable member;
// the buffer itself is also tried as a top-level object. Members and buffers
// that parse as nothing are skipped, never an error. Returns the number of
// containers added.
func Open(store *Store, data []byte, name, path string) int {
	added := 0

	if bytes.HasPrefix(data, arMagic) {
		rd := ar.NewReader(bytes.NewReader(data))
		for {
			hdr, err := rd.Next()
			if err != nil {
				break
			}
			member, err := io.ReadAll(rd)
			if err != nil {
				continue
			}
			memberName := strings.TrimRight(hdr.Name, "/")
			if c, ok := parseObject(member, memberName, path); ok {
				store.Add(c)
				added++
			}
		}
	}

	if c, ok := parseObject(data, name, path); ok {
		store.Add(c)
		added++
	}
	return added
}

// parseObject dispatches on magic over the closed set of supported formats.
func parseObject(data []byte, name, path string) (*Container, bool) {
	switch {
	case matchELF(data):
		return parseELF(data, name, path)
	case matchMachO(data):
		return parseMachO(data, name, path)
	case matchPE(data):
		return parsePE(data, name, path)
	}
	return nil, false
}

// lossyName replaces invalid UTF-8 so a hostile name can never poison the
// model.
func lossyName(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// sectionBuilder accumulates one section's state while symbols are still
// being attributed to it, before the frozen Section is built.
type sectionBuilder struct {
	name        string
	addr        uint64
	data        []byte
	relocs      map[uint64]Relocation
	symbolAddrs []uint64
}

func (b *sectionBuilder) freeze() *Section {
	return NewSection(b.name, b.addr, b.data, b.relocs, b.symbolAddrs)
}
