package resources

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the engine knows about. */
	ResourceTypeNone ResourceType = iota
	/** @brief Application configuration. */
	ResourceTypeConfig
	/** @brief Weapon animation asset. */
	ResourceTypeWeapon
	/** @brief Per character aim offset table. */
	ResourceTypeAimOffset
	/** @brief Static IK pose played by the locomotion layer. */
	ResourceTypeIKPose
	/** @brief Keyframed animation clip. */
	ResourceTypeClip
	/** @brief Custom resource type. Used by loaders outside the core engine. */
	ResourceTypeCustom
)

var resourceTypeNames = map[ResourceType]string{
	ResourceTypeNone:      "none",
	ResourceTypeConfig:    "config",
	ResourceTypeWeapon:    "weapon",
	ResourceTypeAimOffset: "aim_offset",
	ResourceTypeIKPose:    "ik_pose",
	ResourceTypeClip:      "clip",
	ResourceTypeCustom:    "custom",
}

func (t ResourceType) String() string {
	if name, ok := resourceTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the loader which handles this resource. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data, one of the runtime types of this package or a *graph.Clip. */
	Data interface{}
}
