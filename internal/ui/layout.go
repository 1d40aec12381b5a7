package ui

// Constraint sizes one slot of a Split.
type Constraint struct {
	kind  constraintKind
	value int
}

type constraintKind int

const (
	kindLength constraintKind = iota
	kindPercent
	kindFill
)

// Length is a fixed number of cells.
func Length(n int) Constraint { return Constraint{kind: kindLength, value: n} }

// Percent is p percent of the total, rounded down.
func Percent(p int) Constraint { return Constraint{kind: kindPercent, value: p} }

// Fill takes an equal share of whatever the other slots leave.
func Fill() Constraint { return Constraint{kind: kindFill} }

// Split divides total cells among cs. Fixed and percentage slots are
// satisfied in order while space lasts; Fill slots share the remainder, the
// first ones getting the odd cells. The result always sums to at most total
// and never contains a negative size.
func Split(total int, cs ...Constraint) []int {
	out := make([]int, len(cs))
	if total <= 0 {
		return out
	}

	remaining := total
	fills := 0
	for i, c := range cs {
		var want int
		switch c.kind {
		case kindLength:
			want = c.value
		case kindPercent:
			want = total * c.value / 100
		case kindFill:
			fills++
			continue
		}
		want = max(0, min(want, remaining))
		out[i] = want
		remaining -= want
	}

	if fills == 0 {
		return out
	}
	share, extra := remaining/fills, remaining%fills
	for i, c := range cs {
		if c.kind != kindFill {
			continue
		}
		out[i] = share
		if extra > 0 {
			out[i]++
			extra--
		}
	}
	return out
}

// EvenSplit divides total into n equal slots.
func EvenSplit(total, n int) []int {
	cs := make([]Constraint, n)
	for i := range cs {
		cs[i] = Fill()
	}
	return Split(total, cs...)
}
