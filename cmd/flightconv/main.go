// flightconv converts a recorded scenario tape into a CSV file of its
// events, for loading into a spreadsheet or plotting tool. The output
// file is named after the input with .csv appended, mirroring
// convertprg's naming convention.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ence361/helicore/internal/tape"
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s <tape file>", os.Args[0])
	}
	fn := flag.Args()[0]

	f, err := os.Open(fn)
	if err != nil {
		log.Fatalf("Can't open %q: %v", fn, err)
	}
	t, err := tape.ReadFrom(f)
	f.Close()
	if err != nil {
		log.Fatalf("Can't parse %q: %v", fn, err)
	}

	outfn := fn + ".csv"
	out, err := os.Create(outfn)
	if err != nil {
		log.Fatalf("Can't create %q: %v", outfn, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"tick", "kind", "target", "value"}); err != nil {
		log.Fatalf("Can't write header: %v", err)
	}
	for _, e := range t.Events {
		row := []string{
			strconv.FormatUint(uint64(e.Tick), 10),
			e.Kind.String(),
			strconv.FormatUint(uint64(e.Target), 10),
			strconv.FormatUint(uint64(e.Value), 10),
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("Can't write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Can't flush %q: %v", outfn, err)
	}

	fmt.Printf("Wrote %d events to %s\n", len(t.Events), outfn)
}
