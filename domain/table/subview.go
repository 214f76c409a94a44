package table

// SubView is a subset of a parent view addressed by row indices; no cells are copied.
type SubView struct {
	parent  View
	indices []int
}

// NewSubView selects rows of parent in the given order
func NewSubView(parent View, indices []int) *SubView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int          { return len(v.indices) }
func (v *SubView) Columns() []string { return v.parent.Columns() }

func (v *SubView) Cell(row int, column string) string {
	if row < 0 || row >= len(v.indices) {
		return ""
	}
	return v.parent.Cell(v.indices[row], column)
}

// Prefix returns a view of at most n leading rows of v. n <= 0 means all rows.
func Prefix(v View, n int) View {
	if n <= 0 || n >= v.Len() {
		return v
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return NewSubView(v, indices)
}
