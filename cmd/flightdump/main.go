// flightdump loads a recorded scenario tape and disassembles it to a
// human-readable event listing on stdout, one line per event, the
// inverse of cmd/tapeasm.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

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
	defer f.Close()

	t, err := tape.ReadFrom(f)
	if err != nil {
		log.Fatalf("Can't parse %q: %v", fn, err)
	}

	fmt.Printf("%d events\n", len(t.Events))
	for _, e := range t.Events {
		switch e.Kind {
		case tape.SetButton:
			fmt.Printf("%6d  %-10s target=%d value=%d\n", e.Tick, e.Kind, e.Target, e.Value)
		default:
			fmt.Printf("%6d  %-10s value=%d\n", e.Tick, e.Kind, e.Value)
		}
	}
}
