package models

// Complexity levels for a dish. "high" items add a fixed prep penalty
// in the pickup estimate.
const (
	ComplexityLow  = "low"
	ComplexityMed  = "med"
	ComplexityHigh = "high"
)

// A catalog entry on the canteen menu. Reference data managed by the
// admin surface; order flow only ever reads it.
type MenuItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Price       int    `gorm:"not null" json:"price"`     // whole currency units
	PrepTime    int    `json:"prep_time"`                 // average solo-chef minutes
	Complexity  string `gorm:"size:10" json:"complexity"` // "low" | "med" | "high"
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`
}
