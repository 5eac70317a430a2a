package vlog

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeWidth turns a width specification into the declaration
// fragment that precedes (or, for unpacked dimensions, follows) a
// signal name. The rules, in order:
//
//  1. an absent spec or the literal 1 yields no fragment;
//  2. a literal integer N > 1 yields "[N-1:0]" with N-1 computed;
//  3. an explicit msb:lsb range is kept verbatim as "[msb:lsb]";
//  4. any other expression yields "[expr-1:0]" with "-1" appended as
//     text; expressions are never evaluated.
//
// The function is pure: calling it on the same spec always yields the
// same fragment.
func NormalizeWidth(spec string) string {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "1" {
		return ""
	}
	if strings.Contains(spec, ":") {
		return "[" + spec + "]"
	}
	if n, err := strconv.Atoi(spec); err == nil {
		if n <= 1 {
			return ""
		}
		return fmt.Sprintf("[%d:0]", n-1)
	}
	return "[" + spec + "-1:0]"
}

// NormalizeDims renders unpacked dimensions, each normalized by the
// same rules, in declaration order. The result carries a leading
// space so it can be appended directly after a signal name; it is
// empty when there are no dimensions to render.
func NormalizeDims(dims []string) string {
	var b strings.Builder
	for _, d := range dims {
		frag := NormalizeWidth(d)
		if frag == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(frag)
	}
	return b.String()
}
