package simhost

import "github.com/ironhearth/tribeai/engine/hostapi"

// DescriptorTable is a static, in-memory hostapi.Descriptors implementation
// — the late-initialization tribe data table spec.md §6 describes, grounded
// on engine/systems/production.go's TechTree (map[name]*Def populated once
// at startup, looked up by name thereafter).
type DescriptorTable struct {
	buildings map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor
	order     []hostapi.BuildingTypeID
	wares     map[hostapi.WareID]hostapi.WareDescriptor
	resources map[string]hostapi.ResourceID
}

// NewDescriptorTable creates an empty DescriptorTable.
func NewDescriptorTable() *DescriptorTable {
	return &DescriptorTable{
		buildings: make(map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor),
		wares:     make(map[hostapi.WareID]hostapi.WareDescriptor),
		resources: make(map[string]hostapi.ResourceID),
	}
}

// AddBuilding registers one building descriptor.
func (d *DescriptorTable) AddBuilding(desc hostapi.BuildingDescriptor) {
	if _, exists := d.buildings[desc.ID]; !exists {
		d.order = append(d.order, desc.ID)
	}
	d.buildings[desc.ID] = desc
}

// AddWare registers one ware descriptor.
func (d *DescriptorTable) AddWare(desc hostapi.WareDescriptor) {
	d.wares[desc.ID] = desc
}

// AddResourceName registers a resource id under a lookup name.
func (d *DescriptorTable) AddResourceName(name string, id hostapi.ResourceID) {
	d.resources[name] = id
}

// Building implements hostapi.Descriptors.
func (d *DescriptorTable) Building(id hostapi.BuildingTypeID) (hostapi.BuildingDescriptor, bool) {
	desc, ok := d.buildings[id]
	return desc, ok
}

// AllBuildings implements hostapi.Descriptors, in registration order.
func (d *DescriptorTable) AllBuildings() []hostapi.BuildingTypeID {
	out := make([]hostapi.BuildingTypeID, len(d.order))
	copy(out, d.order)
	return out
}

// Ware implements hostapi.Descriptors.
func (d *DescriptorTable) Ware(id hostapi.WareID) (hostapi.WareDescriptor, bool) {
	desc, ok := d.wares[id]
	return desc, ok
}

// ResourceByName implements hostapi.Descriptors.
func (d *DescriptorTable) ResourceByName(name string) (hostapi.ResourceID, bool) {
	id, ok := d.resources[name]
	return id, ok
}
