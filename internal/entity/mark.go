package entity

// Mark identifies the owner of a cell.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

func (that Mark) IsEmpty() bool {
	return that == MarkEmpty
}

// Opponent - returns the other player's mark, MarkEmpty for MarkEmpty.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}
