package board

// Panel is one of the two list views.
type Panel int

const (
	PanelReview Panel = iota
	PanelAssigned
)

// Panels lists every panel in display order.
var Panels = []Panel{PanelReview, PanelAssigned}

func (p Panel) Next() Panel {
	if p == PanelReview {
		return PanelAssigned
	}
	return PanelReview
}

func (p Panel) String() string {
	switch p {
	case PanelReview:
		return "Review Requested"
	case PanelAssigned:
		return "Assigned to Me"
	default:
		return "unknown"
	}
}
