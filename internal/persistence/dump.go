package persistence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

type Dumper interface {
	WriteDump(w io.Writer) error
}

// DumpRecord is one parsed "slot[<index>]: <key> <frequency> <probes>" line.
type DumpRecord struct {
	Slot      int
	Key       string
	Frequency int
	Probes    int
}

// SaveDump writes the dump to a temp file next to path and renames it
// into place once it is synced.
func SaveDump(path string, d Dumper) (err error) {
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				err = multierr.Append(err, file.Close())
			}
			if rmErr := os.Remove(tmpFile); rmErr != nil && !os.IsNotExist(rmErr) {
				err = multierr.Append(err, rmErr)
			}
		}
	}()

	writer := bufio.NewWriter(file)

	if err := d.WriteDump(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush dump: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync dump: %w", err)
	}
	closed = true
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close dump file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to rename dump file: %w", err)
	}

	return nil
}

// LoadDump reads a dump file back into records, in file order.
func LoadDump(path string) ([]DumpRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump file: %w", err)
	}
	defer file.Close()

	return ReadDump(file)
}

func ReadDump(r io.Reader) ([]DumpRecord, error) {
	var records []DumpRecord

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		record, err := ParseDumpLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("invalid dump at line %d: %w", lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}

	return records, nil
}

// ParseDumpLine splits from the right so that keys containing spaces,
// such as dates, survive.
func ParseDumpLine(line string) (DumpRecord, error) {
	if !strings.HasPrefix(line, "slot[") {
		return DumpRecord{}, fmt.Errorf("missing slot prefix")
	}

	end := strings.Index(line, "]: ")
	if end < 0 {
		return DumpRecord{}, fmt.Errorf("missing slot terminator")
	}

	slot, err := strconv.Atoi(line[len("slot["):end])
	if err != nil {
		return DumpRecord{}, fmt.Errorf("invalid slot index: %w", err)
	}

	rest := line[end+len("]: "):]

	probesAt := strings.LastIndexByte(rest, ' ')
	if probesAt < 0 {
		return DumpRecord{}, fmt.Errorf("missing probe count")
	}
	probes, err := strconv.Atoi(rest[probesAt+1:])
	if err != nil {
		return DumpRecord{}, fmt.Errorf("invalid probe count: %w", err)
	}
	rest = rest[:probesAt]

	freqAt := strings.LastIndexByte(rest, ' ')
	if freqAt < 0 {
		return DumpRecord{}, fmt.Errorf("missing frequency")
	}
	frequency, err := strconv.Atoi(rest[freqAt+1:])
	if err != nil {
		return DumpRecord{}, fmt.Errorf("invalid frequency: %w", err)
	}

	return DumpRecord{
		Slot:      slot,
		Key:       rest[:freqAt],
		Frequency: frequency,
		Probes:    probes,
	}, nil
}
