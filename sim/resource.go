package sim

import "fmt"

// ResourceKind identifies one of the three bounded resource pools.
type ResourceKind int

const (
	CPU ResourceKind = iota
	Input
	IO

	// NumResourceKinds is the number of pools the engine manages.
	NumResourceKinds = 3
)

// ResourceKinds lists every kind in the fixed order used for reports and
// same-tick grant replay.
var ResourceKinds = [NumResourceKinds]ResourceKind{CPU, Input, IO}

// NoSlot marks a process that holds no slot of a given kind.
const NoSlot = -1

func (k ResourceKind) String() string {
	switch k {
	case CPU:
		return "CPU"
	case Input:
		return "Input"
	case IO:
		return "I/O"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// mustIndex returns k as an array index, panicking on values outside the enumeration.
func (k ResourceKind) mustIndex() int {
	if k < CPU || k > IO {
		panic(fmt.Sprintf("ResourceKind: unrecognized resource kind %d", int(k)))
	}
	return int(k)
}
