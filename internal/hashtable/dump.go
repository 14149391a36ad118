package hashtable

import (
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// DumpToText returns one line per occupied slot in ascending slot order,
// formatted as "slot[<index>]: <key> <frequency> <probes>".
func (t *Table[K]) DumpToText() []string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	lines := make([]string, 0, t.count)
	for i, entry := range t.slots {
		if entry == nil {
			continue
		}
		buf.Reset()
		appendDumpLine(buf, i, entry)
		lines = append(lines, buf.String())
	}
	return lines
}

// WriteDump writes the DumpToText lines to w, each terminated by '\n'.
func (t *Table[K]) WriteDump(w io.Writer) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, entry := range t.slots {
		if entry == nil {
			continue
		}
		appendDumpLine(buf, i, entry)
		buf.B = append(buf.B, '\n')

		if buf.Len() >= 32*1024 {
			if _, err := w.Write(buf.B); err != nil {
				return fmt.Errorf("failed to write dump: %w", err)
			}
			buf.Reset()
		}
	}

	if buf.Len() > 0 {
		if _, err := w.Write(buf.B); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
	}
	return nil
}

// FormatEntry renders a single dump line for entry at slot.
func FormatEntry[K Key[K]](slot int, entry *Entry[K]) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendDumpLine(buf, slot, entry)
	return buf.String()
}

func appendDumpLine[K Key[K]](buf *bytebufferpool.ByteBuffer, slot int, entry *Entry[K]) {
	buf.B = append(buf.B, "slot["...)
	buf.B = strconv.AppendInt(buf.B, int64(slot), 10)
	buf.B = append(buf.B, "]: "...)
	buf.B = append(buf.B, entry.String()...)
}
