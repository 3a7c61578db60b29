// Package kernel assembles the OpenCL source document consumed by the
// simulator compilation pipeline: a typedef/constant header matching the
// active precision mode followed by the declaration and implementation
// text contributed by the material stack.
package kernel

import (
	"strings"

	"github.com/photomc/photomc/cltypes"
	"github.com/photomc/photomc/material"
)

// Header renders the scalar typedef, floating-point literals and math
// helper macros shared by every generated record type. The output is a
// pure function of the active precision mode.
func Header() string {
	fp := cltypes.FpName()
	lines := []string{
		"/* Generated by photomc; do not edit. */",
		"",
		"typedef " + fp + " mc_fp_t;",
		"",
	}
	if cltypes.GetPrecision() == cltypes.Double {
		lines = append(lines,
			"#define FP_LITERAL(v) v",
		)
	} else {
		lines = append(lines,
			"#define FP_LITERAL(v) v##f",
		)
	}
	lines = append(lines,
		"",
		"#define FP_0    FP_LITERAL(0.0)",
		"#define FP_1    FP_LITERAL(1.0)",
		"#define FP_2    FP_LITERAL(2.0)",
		"#define FP_2PI  FP_LITERAL(6.283185307179586)",
		"#define FP_INF  INFINITY",
		"",
		"#define MC_STRUCT_ATTRIBUTES __attribute__ ((packed))",
		"",
		"#define mc_fdiv(a, b)  ((mc_fp_t)(a)/(mc_fp_t)(b))",
		"#define mc_pow(x, y)   powr(x, y)",
		"#define mc_fclip(x, low, high)  clamp((mc_fp_t)(x), (mc_fp_t)(low), (mc_fp_t)(high))",
	)
	return strings.Join(lines, "\n")
}

// Assemble concatenates the full generated source for a material stack:
// header, record declarations and record implementations, in that order.
// Identical stacks under the same precision mode always yield identical
// text.
func Assemble(stack *material.Stack) string {
	return strings.Join([]string{
		Header(),
		"",
		stack.Declaration(),
		"",
		stack.Implementation(),
		"",
	}, "\n")
}
