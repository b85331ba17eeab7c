package roadgraph

// Material is the pavement material an intersection can be surfaced with.
// Declaration order matters: ties during material voting resolve to the
// first declared member.
type Material int

const (
	// MaterialNone casts no vote during resolution
	MaterialNone Material = iota
	MaterialAsphalt
	MaterialConcrete
	MaterialCobblestone
)

// votingOrder lists the votable materials in declaration order, used for
// deterministic tie-breaking.
var votingOrder = []Material{MaterialAsphalt, MaterialConcrete, MaterialCobblestone}

var materialNames = map[Material]string{
	MaterialNone:        "none",
	MaterialAsphalt:     "asphalt",
	MaterialConcrete:    "concrete",
	MaterialCobblestone: "cobblestone",
}

func (m Material) String() string {
	if name, ok := materialNames[m]; ok {
		return name
	}
	return "none"
}

// MaterialFromString maps a material name back to its enum value; unknown
// names map to MaterialNone.
func MaterialFromString(s string) Material {
	switch s {
	case "asphalt":
		return MaterialAsphalt
	case "concrete":
		return MaterialConcrete
	case "cobblestone":
		return MaterialCobblestone
	}
	return MaterialNone
}
