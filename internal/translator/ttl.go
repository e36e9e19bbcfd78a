package translator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rancher/grafana2moira/internal/moira"
)

const defaultFor = "0m"

var unitSeconds = map[string]int64{
	"h": 3600,
	"m": 60,
	"s": 1,
}

var noDataStates = map[string]moira.TTLState{
	"alerting":   moira.TTLStateError,
	"no_data":    moira.TTLStateNoData,
	"keep_state": moira.TTLStateOK,
	"ok":         moira.TTLStateOK,
}

// DurationError reports a "for" value whose quantity or unit could not be read.
// The duration it belongs to evaluates to zero.
type DurationError struct {
	Value string
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("unable to parse duration %q", e.Value)
}

// UnknownStateError reports a no-data state with no Moira counterpart.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown no data state %q", e.State)
}

// TTL holds the timing settings of a trigger, in seconds.
type TTL struct {
	PendingInterval int64
	TTL             int64
	State           moira.TTLState
}

// ParseTTL derives the pending interval from the alert "for" value (e.g. 5m) and
// the ttl state from its no-data state. TTL is twice the pending interval.
// A *DurationError leaves both durations at zero, an *UnknownStateError leaves
// State empty; both may be returned joined.
func ParseTTL(forValue, noDataState string) (TTL, error) {
	var errs []error

	pending, err := ParseDuration(forValue)
	if err != nil {
		errs = append(errs, err)
	}
	state, err := ParseTTLState(noDataState)
	if err != nil {
		errs = append(errs, err)
	}

	return TTL{
		PendingInterval: pending,
		TTL:             2 * pending,
		State:           state,
	}, errors.Join(errs...)
}

// ParseDuration converts values like 10m, 2h or 30s into seconds. The digits and
// the letters of the value are read separately; an empty value means 0m.
func ParseDuration(value string) (int64, error) {
	if value == "" {
		value = defaultFor
	}
	var digits, unit strings.Builder
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case unicode.IsLetter(r):
			unit.WriteRune(r)
		}
	}

	base, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, &DurationError{Value: value}
	}
	multiplier, ok := unitSeconds[unit.String()]
	if !ok {
		return 0, &DurationError{Value: value}
	}
	return base * multiplier, nil
}

// ParseTTLState maps a Grafana no-data state to the Moira ttl state.
func ParseTTLState(noDataState string) (moira.TTLState, error) {
	state, ok := noDataStates[noDataState]
	if !ok {
		return "", &UnknownStateError{State: noDataState}
	}
	return state, nil
}
