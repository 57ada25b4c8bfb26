package store

import "math/rand"

// City canvas geometry. Placement is a best-effort rejection sample, not a
// packing algorithm: when the canvas is crowded a completion may simply not
// get a building.
const (
	CityCanvasWidth   = 800
	buildingMinWidth  = 40
	buildingMaxWidth  = 80
	buildingMinHeight = 50
	buildingMaxHeight = 200
	placementAttempts = 20
	placementMargin   = 15
)

var layerCycle = []Layer{LayerBack, LayerMid, LayerFront}

// AddBuildingToCity synthesizes one decorative building for a completed
// countdown and appends it. Layers are assigned round-robin by current
// building count. Placement exhaustion is a silent skip, not an error.
func (s *Store) AddBuildingToCity(clientID, projectID, taskID int64) error {
	layer := layerCycle[len(s.app.CityData)%len(layerCycle)]

	x, w, h, ok := placeBuilding(s.rng, s.app.CityData, layer)
	if !ok {
		return nil
	}

	name := ""
	if t := s.FindFocusTask(taskID); t != nil {
		name = t.Name
	}

	b := Building{
		ID:        s.nextID(),
		X:         x,
		Width:     w,
		Height:    h,
		Layer:     layer,
		ClientID:  clientID,
		ProjectID: projectID,
		Name:      name,
	}
	s.app.CityData = append(s.app.CityData, b)
	return s.saveApp()
}

func (s *Store) CityData() []Building {
	return s.app.CityData
}

// placeBuilding samples up to placementAttempts candidate rectangles and
// returns the first one that does not crowd an existing building on the
// same layer.
func placeBuilding(rng *rand.Rand, existing []Building, layer Layer) (x, w, h int, ok bool) {
	for i := 0; i < placementAttempts; i++ {
		w = buildingMinWidth + rng.Intn(buildingMaxWidth-buildingMinWidth)
		h = buildingMinHeight + rng.Intn(buildingMaxHeight-buildingMinHeight)
		x = rng.Intn(CityCanvasWidth - w)
		if !overlapsLayer(existing, layer, x, w) {
			return x, w, h, true
		}
	}
	return 0, 0, 0, false
}

// overlapsLayer reports whether [x, x+w) comes within placementMargin units
// of any building on the given layer.
func overlapsLayer(existing []Building, layer Layer, x, w int) bool {
	for _, b := range existing {
		if b.Layer != layer {
			continue
		}
		if x < b.X+b.Width+placementMargin && b.X < x+w+placementMargin {
			return true
		}
	}
	return false
}
