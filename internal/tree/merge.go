package tree

// Merge combines base and overlay into a new map.
//
// Every key of base is copied. For every key of overlay: when both sides hold
// mappings they are merged recursively, otherwise the overlay value replaces
// the base value wholesale. Arrays are never merged element-wise.
//
// Merge never mutates its inputs and the result shares no containers with
// them. Nil inputs contribute nothing.
func Merge(base, overlay *Map) *Map {
	result := base.Clone()

	overlay.Range(func(key string, overVal any) bool {
		baseVal, _ := result.Get(key)
		baseMap, baseIsMap := IsMap(baseVal)
		overMap, overIsMap := IsMap(overVal)
		if baseIsMap && overIsMap {
			result.Set(key, Merge(baseMap, overMap))
		} else {
			result.Set(key, Clone(overVal))
		}
		return true
	})

	return result
}
