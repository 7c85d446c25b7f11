package model

import "time"

type BedStatus string

const (
	BedAvailable   BedStatus = "available"
	BedOccupied    BedStatus = "occupied"
	BedMaintenance BedStatus = "maintenance"
)

func (s BedStatus) Valid() bool {
	switch s {
	case BedAvailable, BedOccupied, BedMaintenance:
		return true
	}
	return false
}

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomDeluxe   RoomType = "deluxe"
	RoomSuite    RoomType = "suite"
)

// Bed is the smallest bookable unit. Its status is a cached projection of
// the bookings that reference it; only the inventory service writes it.
type Bed struct {
	BedNumber   string    `json:"bed_number" bson:"bed_number" validate:"required,min=1,max=16"`
	Status      BedStatus `json:"status" bson:"status" validate:"required,oneof=available occupied maintenance"`
	PricePerBed float64   `json:"price_per_bed" bson:"price_per_bed" validate:"gte=0"`
}

type Room struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	RoomNumber int       `json:"room_number" bson:"room_number" validate:"required,gt=0"`
	Type       RoomType  `json:"type" bson:"type" validate:"required,oneof=standard deluxe suite"`
	Beds       []Bed     `json:"beds" bson:"beds" validate:"omitempty,dive"`
	Features   []string  `json:"features" bson:"features" validate:"omitempty,dive,min=1,max=64"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// FindBed returns the bed with the given number, or nil.
func (r *Room) FindBed(bedNumber string) *Bed {
	for i := range r.Beds {
		if r.Beds[i].BedNumber == bedNumber {
			return &r.Beds[i]
		}
	}
	return nil
}

type RoomUpdate struct {
	Type     RoomType  `json:"type,omitempty" validate:"omitempty,oneof=standard deluxe suite"`
	Features *[]string `json:"features,omitempty" validate:"omitempty,dive,min=1,max=64"`
}

// InventoryStats is the derived occupancy snapshot served to dashboards,
// computed in a single aggregation instead of per-request recounting.
type InventoryStats struct {
	TotalRooms      int64 `json:"total_rooms"`
	TotalBeds       int64 `json:"total_beds"`
	AvailableBeds   int64 `json:"available_beds"`
	OccupiedBeds    int64 `json:"occupied_beds"`
	MaintenanceBeds int64 `json:"maintenance_beds"`
}
