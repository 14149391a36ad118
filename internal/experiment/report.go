package experiment

import (
	"fmt"
	"io"
	"math"
)

func writeHeader(w io.Writer, capacity int, cfg Config) {
	fmt.Fprintf(w, "HashtableExperiment: Found a twin prime for table capacity: %d\n", capacity)
	fmt.Fprintf(w, "HashtableExperiment: Input: %-11s Loadfactor: %.2f\n", cfg.Source, cfg.LoadFactor)
}

func writeResult(w io.Writer, r Result) {
	fmt.Fprintf(w, "\n\t\tUsing %s\n", r.Method)
	io.WriteString(w, r.Trace)
	fmt.Fprintf(w, "HashtableExperiment: size of hash table is: %d\n", r.Size)
	fmt.Fprintf(w, "\t\tInserted %d elements, of which %d were duplicates\n", r.Attempts, r.Duplicates)
	if math.IsNaN(r.AverageProbes) {
		fmt.Fprintf(w, "\t\tAvg. no. of probes = undefined\n")
	} else {
		fmt.Fprintf(w, "\t\tAvg. no. of probes = %.2f\n", r.AverageProbes)
	}
	if r.DumpPath != "" {
		fmt.Fprintf(w, "HashtableExperiment: Saved dump of hash table to %s\n", r.DumpPath)
	}
}
