// Package protocol implements the line-oriented request/response protocol
// spoken by the highway service and the session that executes it.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a request type.
type Kind int

const (
	AddStation Kind = iota
	AddCar
	ScrapCar
	ScrapStation
	PlanPath
)

// String returns the canonical keyword of k.
func (k Kind) String() string {
	switch k {
	case AddStation:
		return "add-station"
	case AddCar:
		return "add-car"
	case ScrapCar:
		return "scrap-car"
	case ScrapStation:
		return "scrap-station"
	case PlanPath:
		return "plan-path"
	}
	return "unknown"
}

// keywords maps every accepted keyword, including the Italian names used
// by older command scripts, to its request kind.
var keywords = map[string]Kind{
	"add-station":        AddStation,
	"add-car":            AddCar,
	"scrap-car":          ScrapCar,
	"scrap-station":      ScrapStation,
	"plan-path":          PlanPath,
	"aggiungi-stazione":  AddStation,
	"aggiungi-auto":      AddCar,
	"rottama-auto":       ScrapCar,
	"demolisci-stazione": ScrapStation,
	"pianifica-percorso": PlanPath,
}

var (
	// ErrUnknownCommand is returned for a line whose keyword is not recognized.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMalformed is returned for a line whose arguments do not fit its keyword.
	ErrMalformed = errors.New("malformed request")
)

// Command is one parsed request.
type Command struct {
	Kind     Kind
	Distance int64   // station, or path start for PlanPath
	Goal     int64   // PlanPath only
	Range    int64   // AddCar and ScrapCar only
	Ranges   []int64 // AddStation only
}

// Parse decodes a request line.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}
	kind, ok := keywords[fields[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}

	args := make([]int64, len(fields)-1)
	for i, f := range fields[1:] {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil || v < 0 {
			return Command{}, fmt.Errorf("%w: %s argument %d: %q", ErrMalformed, kind, i+1, f)
		}
		args[i] = v
	}

	cmd := Command{Kind: kind}
	switch kind {
	case AddStation:
		if len(args) < 2 || int64(len(args)-2) != args[1] {
			return Command{}, fmt.Errorf("%w: %s wants <distance> <count> and count ranges", ErrMalformed, kind)
		}
		cmd.Distance = args[0]
		cmd.Ranges = args[2:]
	case AddCar, ScrapCar:
		if len(args) != 2 {
			return Command{}, fmt.Errorf("%w: %s wants <distance> <range>", ErrMalformed, kind)
		}
		cmd.Distance, cmd.Range = args[0], args[1]
	case ScrapStation:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: %s wants <distance>", ErrMalformed, kind)
		}
		cmd.Distance = args[0]
	case PlanPath:
		if len(args) != 2 {
			return Command{}, fmt.Errorf("%w: %s wants <start> <goal>", ErrMalformed, kind)
		}
		cmd.Distance, cmd.Goal = args[0], args[1]
	}
	return cmd, nil
}

// String renders c in the canonical English form.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Kind.String())
	switch c.Kind {
	case AddStation:
		fmt.Fprintf(&b, " %d %d", c.Distance, len(c.Ranges))
		for _, r := range c.Ranges {
			fmt.Fprintf(&b, " %d", r)
		}
	case AddCar, ScrapCar:
		fmt.Fprintf(&b, " %d %d", c.Distance, c.Range)
	case ScrapStation:
		fmt.Fprintf(&b, " %d", c.Distance)
	case PlanPath:
		fmt.Fprintf(&b, " %d %d", c.Distance, c.Goal)
	}
	return b.String()
}
