package helpers

import (
	"bytes"
	"sort"

	"github.com/google/uuid"

	"github.com/makersrow/makersrow-backend/internal/cart"
)

// ManufacturerGroup is a derived partition of cart lines sharing one
// manufacturer, used only at checkout.
type ManufacturerGroup struct {
	ManufacturerID uuid.UUID
	Lines          []cart.Line
	SubtotalCents  int
	ItemCount      int
}

// GroupByManufacturer partitions the lines by manufacturer. Groups come back
// in a deterministic order (sorted by manufacturer id) so the "first created
// order" reported after checkout is stable.
func GroupByManufacturer(lines []cart.Line) []ManufacturerGroup {
	byID := make(map[uuid.UUID]*ManufacturerGroup, len(lines))
	for _, line := range lines {
		group, ok := byID[line.ManufacturerID]
		if !ok {
			group = &ManufacturerGroup{ManufacturerID: line.ManufacturerID}
			byID[line.ManufacturerID] = group
		}
		group.Lines = append(group.Lines, line)
		group.SubtotalCents += line.SubtotalCents()
		group.ItemCount++
	}

	groups := make([]ManufacturerGroup, 0, len(byID))
	for _, group := range byID {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return bytes.Compare(groups[i].ManufacturerID[:], groups[j].ManufacturerID[:]) < 0
	})
	return groups
}

// AllocateShipping splits the flat fee evenly across groups. The integer
// remainder lands on the first group so the allocated shares always sum to
// the full fee.
func AllocateShipping(totalCents, numGroups int) []int {
	if numGroups <= 0 {
		return nil
	}
	share := totalCents / numGroups
	shares := make([]int, numGroups)
	for i := range shares {
		shares[i] = share
	}
	shares[0] += totalCents - share*numGroups
	return shares
}
