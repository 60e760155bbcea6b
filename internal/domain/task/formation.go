package task

import (
	"math"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// FormationPositions lays count slots out on a square grid centered on
// center, spacing apart, on the XZ plane. The last row is centered when it
// is not full.
func FormationPositions(center shared.Vector3, count int, spacing float64) []shared.Vector3 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []shared.Vector3{center}
	}

	columns := int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + columns - 1) / columns
	depth := float64(rows-1) * spacing

	positions := make([]shared.Vector3, 0, count)
	for row := 0; row < rows; row++ {
		inRow := columns
		if remaining := count - row*columns; remaining < columns {
			inRow = remaining
		}
		width := float64(inRow-1) * spacing
		for col := 0; col < inRow; col++ {
			positions = append(positions, shared.Vector3{
				X: center.X - width/2 + float64(col)*spacing,
				Y: center.Y,
				Z: center.Z - depth/2 + float64(row)*spacing,
			})
		}
	}
	return positions
}
