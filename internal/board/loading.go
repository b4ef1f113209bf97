package board

type LoadingKind int

const (
	Idle LoadingKind = iota
	Loading
	Loaded
	Failed
)

func (k LoadingKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// LoadingState is the outcome of the most recent refresh event. Only the
// latest one is kept.
type LoadingState struct {
	Kind    LoadingKind
	Repo    string
	Message string
}

func (s LoadingState) String() string {
	switch s.Kind {
	case Loading:
		return "loading " + s.Repo
	case Failed:
		return "error: " + s.Message
	default:
		return s.Kind.String()
	}
}
