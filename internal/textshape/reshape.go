package textshape

// joining describes how an Arabic letter connects to its neighbours.
type joining int

const (
	joinNone  joining = iota // never connects (hamza)
	joinRight                // connects only to the preceding letter
	joinDual                 // connects on both sides
	joinCausing              // tatweel: connects both sides, has no forms
)

// forms holds the presentation forms of a letter: isolated, final, initial,
// medial. Zero means the form does not exist.
type forms struct {
	join                             joining
	isolated, final, initial, medial rune
}

var letters = map[rune]forms{
	'ء': {joinNone, 0xFE80, 0, 0, 0},
	'آ': {joinRight, 0xFE81, 0xFE82, 0, 0},
	'أ': {joinRight, 0xFE83, 0xFE84, 0, 0},
	'ؤ': {joinRight, 0xFE85, 0xFE86, 0, 0},
	'إ': {joinRight, 0xFE87, 0xFE88, 0, 0},
	'ئ': {joinDual, 0xFE89, 0xFE8A, 0xFE8B, 0xFE8C},
	'ا': {joinRight, 0xFE8D, 0xFE8E, 0, 0},
	'ب': {joinDual, 0xFE8F, 0xFE90, 0xFE91, 0xFE92},
	'ة': {joinRight, 0xFE93, 0xFE94, 0, 0},
	'ت': {joinDual, 0xFE95, 0xFE96, 0xFE97, 0xFE98},
	'ث': {joinDual, 0xFE99, 0xFE9A, 0xFE9B, 0xFE9C},
	'ج': {joinDual, 0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0},
	'ح': {joinDual, 0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4},
	'خ': {joinDual, 0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8},
	'د': {joinRight, 0xFEA9, 0xFEAA, 0, 0},
	'ذ': {joinRight, 0xFEAB, 0xFEAC, 0, 0},
	'ر': {joinRight, 0xFEAD, 0xFEAE, 0, 0},
	'ز': {joinRight, 0xFEAF, 0xFEB0, 0, 0},
	'س': {joinDual, 0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4},
	'ش': {joinDual, 0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8},
	'ص': {joinDual, 0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC},
	'ض': {joinDual, 0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0},
	'ط': {joinDual, 0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4},
	'ظ': {joinDual, 0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8},
	'ع': {joinDual, 0xFEC9, 0xFECA, 0xFECB, 0xFECC},
	'غ': {joinDual, 0xFECD, 0xFECE, 0xFECF, 0xFED0},
	'ـ': {joinCausing, 0, 0, 0, 0},
	'ف': {joinDual, 0xFED1, 0xFED2, 0xFED3, 0xFED4},
	'ق': {joinDual, 0xFED5, 0xFED6, 0xFED7, 0xFED8},
	'ك': {joinDual, 0xFED9, 0xFEDA, 0xFEDB, 0xFEDC},
	'ل': {joinDual, 0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0},
	'م': {joinDual, 0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4},
	'ن': {joinDual, 0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8},
	'ه': {joinDual, 0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC},
	'و': {joinRight, 0xFEED, 0xFEEE, 0, 0},
	'ى': {joinRight, 0xFEEF, 0xFEF0, 0, 0},
	'ي': {joinDual, 0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4},
}

// lamAlef maps the alef that follows a lam to the isolated ligature; the
// final form is the next code point.
var lamAlef = map[rune]rune{
	'آ': 0xFEF5,
	'أ': 0xFEF7,
	'إ': 0xFEF9,
	'ا': 0xFEFB,
}

const lam = 'ل'

// transparent reports combining marks (harakat) that do not break joining.
func transparent(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}

// Reshape replaces Arabic letters with their contextual presentation forms
// so they render joined without a shaping engine. Text stays in logical
// order.
func Reshape(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in))

	// prevJoins tracks whether the last non-transparent letter connects to
	// the next one.
	prevJoins := false

	for i := 0; i < len(in); i++ {
		r := in[i]
		if transparent(r) {
			out = append(out, r)
			continue
		}

		f, ok := letters[r]
		if !ok {
			out = append(out, r)
			prevJoins = false
			continue
		}

		if r == lam {
			if j := nextLetter(in, i); j >= 0 {
				if lig, ok := lamAlef[in[j]]; ok {
					if prevJoins {
						lig++
					}
					out = append(out, lig)
					out = append(out, in[i+1:j]...)
					i = j
					prevJoins = false
					continue
				}
			}
		}

		if f.join == joinCausing {
			out = append(out, r)
			prevJoins = true
			continue
		}

		joinsNext := false
		if f.join == joinDual {
			if j := nextLetter(in, i); j >= 0 {
				joinsNext = letters[in[j]].join != joinNone
			}
		}
		joinsPrev := prevJoins && f.join != joinNone

		var form rune
		switch {
		case joinsPrev && joinsNext:
			form = f.medial
		case joinsPrev:
			form = f.final
		case joinsNext:
			form = f.initial
		default:
			form = f.isolated
		}
		if form == 0 {
			form = f.isolated
		}
		out = append(out, form)
		prevJoins = joinsNext
	}

	return string(out)
}

// nextLetter returns the index of the next non-transparent rune after i if
// it is an Arabic letter, or -1.
func nextLetter(in []rune, i int) int {
	for j := i + 1; j < len(in); j++ {
		if transparent(in[j]) {
			continue
		}
		if _, ok := letters[in[j]]; ok {
			return j
		}
		return -1
	}
	return -1
}
