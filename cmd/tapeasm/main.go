// tapeasm assembles a human-readable scenario script into a binary tape
// (internal/tape) that cmd/helicore can replay.
// Each non-blank, non-comment line of the input is:
//
//	<tick> <kind> [target] <value>
//
// where kind is one of adc, switch, button, cha, chb, index (case
// insensitive); target is given only for button (0-4, matching
// up/down/left/right/reset), and for every other kind the token after
// kind is read as the value; value is an integer, for adc a raw ADC count
// and everywhere else a 0/1 level.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ence361/helicore/internal/tape"
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 2 {
		log.Fatalf("Invalid command: %s <input.script> <output.tape>", os.Args[0])
	}
	in, out := flag.Args()[0], flag.Args()[1]

	f, err := os.Open(in)
	if err != nil {
		log.Fatalf("Can't open %q: %v", in, err)
	}
	defer f.Close()

	t := &tape.Tape{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			log.Fatalf("Line %d: %q: %v", lineNo, line, err)
		}
		t.Events = append(t.Events, e)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Can't read %q: %v", in, err)
	}

	w, err := os.Create(out)
	if err != nil {
		log.Fatalf("Can't create %q: %v", out, err)
	}
	defer w.Close()
	n, err := t.WriteTo(w)
	if err != nil {
		log.Fatalf("Can't write %q: %v", out, err)
	}
	fmt.Printf("Wrote %d events (%d bytes) to %s\n", len(t.Events), n, out)
}

func parseLine(line string) (tape.Event, error) {
	toks := strings.Fields(line)
	if len(toks) < 3 {
		return tape.Event{}, fmt.Errorf("need at least <tick> <kind> <value>")
	}
	tick, err := strconv.ParseUint(toks[0], 10, 32)
	if err != nil {
		return tape.Event{}, fmt.Errorf("bad tick %q: %w", toks[0], err)
	}

	kind, hasTarget, err := parseKind(toks[1])
	if err != nil {
		return tape.Event{}, err
	}

	rest := toks[2:]
	var target uint64
	if hasTarget {
		if len(rest) < 2 {
			return tape.Event{}, fmt.Errorf("button events need <target> <value>")
		}
		target, err = strconv.ParseUint(rest[0], 10, 8)
		if err != nil {
			return tape.Event{}, fmt.Errorf("bad target %q: %w", rest[0], err)
		}
		rest = rest[1:]
	}

	value, err := strconv.ParseUint(rest[0], 10, 16)
	if err != nil {
		return tape.Event{}, fmt.Errorf("bad value %q: %w", rest[0], err)
	}

	return tape.Event{Tick: uint32(tick), Kind: kind, Target: byte(target), Value: uint16(value)}, nil
}

func parseKind(s string) (tape.Kind, bool, error) {
	switch strings.ToLower(s) {
	case "adc":
		return tape.SetADC, false, nil
	case "switch":
		return tape.SetSwitch, false, nil
	case "button":
		return tape.SetButton, true, nil
	case "cha":
		return tape.SetChA, false, nil
	case "chb":
		return tape.SetChB, false, nil
	case "index":
		return tape.SetIndex, false, nil
	default:
		return 0, false, fmt.Errorf("unknown kind %q", s)
	}
}
