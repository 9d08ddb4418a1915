package pipeline

// Stage enumerates the pipeline state machine. Within one run the stages
// advance strictly in order; Failed is reachable from any of them.
type Stage int

const (
	StageIdle Stage = iota
	StageNoiseRemoval
	StageMosaic
	StageShadowPass
	StageHighlightPass
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageNoiseRemoval:
		return "noise-removal"
	case StageMosaic:
		return "mosaic"
	case StageShadowPass:
		return "shadow-pass"
	case StageHighlightPass:
		return "highlight-pass"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// EventBrickified is the completion signal name emitted once the final
// image has replaced the original.
const EventBrickified = "brickified"
