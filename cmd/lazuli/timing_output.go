package main

import (
	"fmt"
	"io"

	"lazuli/internal/driver"
)

func printTimings(out io.Writer, o *driver.Outcome) {
	if out == nil || o == nil || len(o.Timings.Phases) == 0 {
		return
	}
	fmt.Fprintf(out, "%s ", o.Context)
	fmt.Fprint(out, o.Timings.Summary())
}
