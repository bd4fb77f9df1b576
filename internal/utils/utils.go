package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apex/log/handlers/cli"
)

var normalPadding = cli.Default.Padding

// ConvertStrToUint32 converts a decimal or 0x prefixed hexadecimal string to a uint32
func ConvertStrToUint32(intStr string) (uint32, error) {
	s := intStr
	base := 10
	if strings.HasPrefix(s, "0x") {
		s = s[2:]
		base = 16
	}
	out, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", intStr, err)
	}
	return uint32(out), nil
}

// Indent runs f with the cli handler padding raised to level
func Indent(f func(s string), level int) func(string) {
	return func(s string) {
		cli.Default.Padding = normalPadding * level
		f(s)
		cli.Default.Padding = normalPadding
	}
}

// Pad creates left padding for printf members
func Pad(length int) string {
	if length > 0 {
		return strings.Repeat(" ", length)
	}
	return " "
}
