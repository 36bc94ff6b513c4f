package timing

import (
	"fmt"
	"log"
	"time"
)

// Unit selects how an elapsed duration is scaled before it is formatted.
// The zero value stands for the package default, milliseconds.
type Unit int

// The supported units.
const (
	UnitDefault Unit = iota
	Nanoseconds
	Microseconds
	Milliseconds
	Seconds
)

// ParseUnit converts a unit token into a Unit. The recognized tokens are ns,
// us (or μs), ms, and s.
func ParseUnit(token string) (Unit, error) {
	switch token {
	case "ns":
		return Nanoseconds, nil
	case "us", "μs":
		return Microseconds, nil
	case "ms":
		return Milliseconds, nil
	case "s":
		return Seconds, nil
	}

	return UnitDefault,
		fmt.Errorf("unknown unit token %q, must be one of ns, us, ms, s", token)
}

func (u Unit) resolve() Unit {
	if u == UnitDefault {
		return Milliseconds
	}
	return u
}

// Convert scales d to the unit, truncating toward zero. A 1999us duration
// converts to 1ms.
func (u Unit) Convert(d time.Duration) int64 {
	switch u.resolve() {
	case Nanoseconds:
		return d.Nanoseconds()
	case Microseconds:
		return d.Microseconds()
	case Milliseconds:
		return d.Milliseconds()
	case Seconds:
		return int64(d / time.Second)
	}

	log.Panicf("invalid unit %d", u)
	return 0
}

// Suffix returns the suffix printed after the scaled value.
func (u Unit) Suffix() string {
	switch u.resolve() {
	case Nanoseconds:
		return "ns"
	case Microseconds:
		return "us"
	case Milliseconds:
		return "ms"
	case Seconds:
		return "s"
	}

	log.Panicf("invalid unit %d", u)
	return ""
}

func (u Unit) String() string {
	return u.Suffix()
}
