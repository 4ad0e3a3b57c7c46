// Package envutil reads bounded settings from environment variables.
package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var log = logger.New("envutil:envutil")

// RangeError reports an environment value that is not an integer in
// [Min, Max].
type RangeError struct {
	Name  string
	Value string
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s=%q must be an integer between %d and %d", e.Name, e.Value, e.Min, e.Max)
}

// LookupInt returns the integer stored in the named variable. ok is false
// when the variable is unset or blank. A value that does not parse or falls
// outside [minValue, maxValue] yields a *RangeError.
func LookupInt(name string, minValue, maxValue int) (value int, ok bool, err error) {
	raw, set := os.LookupEnv(name)
	raw = strings.TrimSpace(raw)
	if !set || raw == "" {
		return 0, false, nil
	}

	n, convErr := strconv.Atoi(raw)
	if convErr != nil || n < minValue || n > maxValue {
		return 0, false, &RangeError{Name: name, Value: raw, Min: minValue, Max: maxValue}
	}
	log.Printf("Using %s=%d", name, n)
	return n, true, nil
}
