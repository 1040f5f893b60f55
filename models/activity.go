package models

import "time"

// TimeSlot is an optional bookable departure with its own price. Activities
// without slots are booked at the base price.
type TimeSlot struct {
	ID    string  `bson:"id" json:"id"`
	Label string  `bson:"label" json:"label"` // e.g. "Sunrise (6:00 AM)"
	Price float64 `bson:"price" json:"price"`
}

// Activity is a bookable tour or experience in the catalog.
type Activity struct {
	ID               string     `bson:"id" json:"id"`
	Name             string     `bson:"name" json:"name"`
	Description      string     `bson:"description" json:"description"`
	Price            float64    `bson:"price" json:"price"`
	Currency         string     `bson:"currency" json:"currency"` // defaults to MAD
	Image            string     `bson:"image" json:"image"`
	Photos           []string   `bson:"photos,omitempty" json:"photos,omitempty"`
	Category         string     `bson:"category" json:"category"`
	IsActive         bool       `bson:"is_active" json:"isActive"`
	Availability     string     `bson:"availability,omitempty" json:"availability,omitempty"`
	Duration         string     `bson:"duration,omitempty" json:"duration,omitempty"`
	TimeSlots        []TimeSlot `bson:"time_slots,omitempty" json:"timeSlots,omitempty"`
	GetYourGuidePrice float64   `bson:"getyourguide_price,omitempty" json:"getyourguidePrice,omitempty"` // manually noted competitor price
	CreatedAt        time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updatedAt"`
}

// SlotPrice resolves the price for a chosen time slot, falling back to the
// base price when the slot id is empty or unknown.
func (a Activity) SlotPrice(slotID string) float64 {
	if slotID == "" {
		return a.Price
	}
	for _, slot := range a.TimeSlots {
		if slot.ID == slotID {
			return slot.Price
		}
	}
	return a.Price
}
