package types

// ROSVersion is the middleware version track a ROS distribution belongs
// to. It is passed verbatim to the rosdep recipe as ROS_VERSION.
type ROSVersion string

const (
	ROSVersionLegacy ROSVersion = "ros"
	ROSVersionModern ROSVersion = "ros2"
)

type ProgressKind string

const (
	ProgressKindStream   ProgressKind = "stream"
	ProgressKindStatus   ProgressKind = "status"
	ProgressKindAux      ProgressKind = "aux"
	ProgressKindError    ProgressKind = "error"
	ProgressKindProgress ProgressKind = "progress"
)

type BaseImageSource string

const (
	BaseImageDerived    BaseImageSource = "derived"
	BaseImageOverridden BaseImageSource = "overridden"
)
