package models

import "time"

// TrainingType is a training category ("Séminaire", "Atelier"...). Seminars and
// requests copy its name by value.
type TrainingType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Venue is a training location.
type Venue struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Organization is a host organization ("organisme") and its country.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// Seminar is a catalog entry. TrainingType holds a TrainingType name.
type Seminar struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	Theme        string    `json:"theme"`
	TrainingType string    `json:"type_formation"`
	CreatedAt    time.Time `json:"created_at"`
}
