package types

// ProgressEvent is one decoded record of a pull or build stream reported
// by the container engine.
type ProgressEvent struct {
	Kind    ProgressKind
	ID      string
	Message string
	Current int64
	Total   int64
}

type ImagePullRequest struct {
	Reference string
	Platform  string
}

type ImageBuildRequest struct {
	ContextDir string
	Dockerfile string
	Tag        string
	BuildArgs  map[string]string
	NoCache    bool
}
