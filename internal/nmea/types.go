package nmea

import (
	"fmt"
	"strings"
)

// Type identifies one of the supported sentence types. It is matched
// against the last three characters of a sentence identifier, so GPGGA,
// GNGGA and GLGGA all decode as TypeGGA.
type Type int

const (
	TypeGGA Type = iota + 1
	TypeGLL
	TypeGSA
	TypeRMC
	TypeVTG
	TypeGSV
)

var typeNames = map[Type]string{
	TypeGGA: "GGA",
	TypeGLL: "GLL",
	TypeGSA: "GSA",
	TypeRMC: "RMC",
	TypeVTG: "VTG",
	TypeGSV: "GSV",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Types lists every supported type in declaration order.
func Types() []Type {
	return []Type{TypeGGA, TypeGLL, TypeGSA, TypeRMC, TypeVTG, TypeGSV}
}

// ParseType maps a mode name such as "gga" or "GSV" to its Type.
func ParseType(s string) (Type, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}
