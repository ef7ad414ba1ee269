package constdef

// primitiveRoots are the crate roots that re-export the primitive types
// under a "primitive" module.
var primitiveRoots = map[string]bool{
	"core": true,
	"std":  true,
}

// Normalize reduces a type path to the canonical name the registry expects.
//
// A single segment is returned verbatim. A path of the form
// core::primitive::<name> or std::primitive::<name> normalizes to <name>.
// Every other shape reports false.
func Normalize(segments []string) (string, bool) {
	switch len(segments) {
	case 1:
		return segments[0], true
	case 3:
		if primitiveRoots[segments[0]] && segments[1] == "primitive" && segments[2] != "" {
			return segments[2], true
		}
	}
	return "", false
}
