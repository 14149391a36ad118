package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lojhan/openaddr/internal/hashtable"
)

const probePreview = 8

// Parser turns the textual form of a key back into a key.
type Parser[K any] func(s string) (K, error)

func PingCommand(args []string) string {
	if len(args) == 0 {
		return "PONG"
	}
	return strings.Join(args, " ")
}

func SizeCommand[K hashtable.Key[K]](t *hashtable.Instrumented[K]) func(args []string) string {
	return func(args []string) string {
		if len(args) != 0 {
			return "ERR wrong number of arguments for 'size' command"
		}
		return strconv.Itoa(t.Table().Size())
	}
}

func CapacityCommand[K hashtable.Key[K]](t *hashtable.Instrumented[K]) func(args []string) string {
	return func(args []string) string {
		if len(args) != 0 {
			return "ERR wrong number of arguments for 'capacity' command"
		}
		return strconv.Itoa(t.Table().Capacity())
	}
}

func StatsCommand[K hashtable.Key[K]](t *hashtable.Instrumented[K]) func(args []string) string {
	return func(args []string) string {
		if len(args) != 0 {
			return "ERR wrong number of arguments for 'stats' command"
		}

		table := t.Table()
		avg := "undefined"
		if v, err := table.AverageProbes(); err == nil {
			avg = strconv.FormatFloat(v, 'f', 4, 64)
		}
		return fmt.Sprintf("size=%d capacity=%d load=%.4f avg_probes=%s probe=%s",
			table.Size(), table.Capacity(), table.LoadFactor(), avg, table.Prober().Name())
	}
}

// SearchCommand joins its arguments so that keys containing spaces can
// be looked up.
func SearchCommand[K hashtable.Key[K]](t *hashtable.Instrumented[K], parse Parser[K]) func(args []string) string {
	return func(args []string) string {
		if len(args) == 0 {
			return "ERR wrong number of arguments for 'search' command"
		}

		key, err := parse(strings.Join(args, " "))
		if err != nil {
			return "ERR " + err.Error()
		}

		slot, entry := t.Locate(key)
		if entry == nil {
			return "NOT_FOUND"
		}
		return hashtable.FormatEntry(slot, entry)
	}
}

func ProbeCommand[K hashtable.Key[K]](t *hashtable.Instrumented[K], parse Parser[K]) func(args []string) string {
	return func(args []string) string {
		if len(args) == 0 {
			return "ERR wrong number of arguments for 'probe' command"
		}

		key, err := parse(strings.Join(args, " "))
		if err != nil {
			return "ERR " + err.Error()
		}

		table := t.Table()
		n := min(probePreview, table.Capacity())
		slots := hashtable.ProbeSlots(table.Prober(), key.HashCode(), table.Capacity(), n)

		parts := make([]string, len(slots))
		for i, slot := range slots {
			parts[i] = strconv.Itoa(slot)
		}
		return strings.Join(parts, " ")
	}
}

func DumpCommand[K hashtable.Key[K]](t *hashtable.Instrumented[K]) func(args []string) string {
	return func(args []string) string {
		if len(args) != 0 {
			return "ERR wrong number of arguments for 'dump' command"
		}

		lines := t.Table().DumpToText()
		lines = append(lines, "END")
		return strings.Join(lines, "\n")
	}
}
