package decompose

import "github.com/ShayCichocki/quorum/pkg/models"

// normalize reassigns subtask IDs sequentially 1..N in output order and
// remaps each depends list from the provisional IDs to the new ones.
// Entries that dangle, self-reference, or point forward are dropped.
func normalize(subtasks []*models.Subtask) {
	idMap := make(map[int]int, len(subtasks))
	for i, st := range subtasks {
		// Last occurrence wins on duplicate provisional IDs.
		idMap[st.ID] = i + 1
	}

	for i, st := range subtasks {
		newID := i + 1
		var deps []int
		for _, dep := range st.DependsOn {
			mapped, ok := idMap[dep]
			if !ok || mapped >= newID {
				continue
			}
			deps = append(deps, mapped)
		}
		st.ID = newID
		st.DependsOn = deps
	}
}
