package flows

type FlowName string

const (
	FlowDaily      FlowName = "daily"
	FlowEvent      FlowName = "event"
	FlowRegenerate FlowName = "regenerate"
	FlowQuiz       FlowName = "quiz"
	FlowInstant    FlowName = "instant"
	FlowVisual     FlowName = "visual"
	FlowAccessory  FlowName = "accessory"
	FlowFact       FlowName = "fact"
	FlowProducts   FlowName = "products"
	FlowStyleBot   FlowName = "stylebot"
)

type ImagePolicy int

const (
	// ImageDecorative: a failed or empty image leaves imageUrl as "".
	ImageDecorative ImagePolicy = iota
	// ImagePrimary: the image is the deliverable, failure fails the flow.
	ImagePrimary
)

func (p ImagePolicy) String() string {
	switch p {
	case ImagePrimary:
		return "primary"
	default:
		return "decorative"
	}
}

type ImagePolicies map[FlowName]ImagePolicy

// DefaultImagePolicies lists every flow that has an image step.
var DefaultImagePolicies = ImagePolicies{
	FlowDaily:      ImageDecorative,
	FlowEvent:      ImageDecorative,
	FlowRegenerate: ImageDecorative,
	FlowVisual:     ImagePrimary,
	FlowInstant:    ImagePrimary,
	FlowQuiz:       ImagePrimary,
}

// For returns the flow's policy, unknown flows are decorative.
func (p ImagePolicies) For(flow FlowName) ImagePolicy {
	if policy, ok := p[flow]; ok {
		return policy
	}
	return ImageDecorative
}
