package model

import "time"

// Reservation is a booking of one car by one user over [StartDate, EndDate).
// Rows are never deleted; cancellation is a status change.
type Reservation struct {
	ID         int64     `db:"id" json:"id"`
	CarID      int64     `db:"car_id" json:"carId"`
	UserID     int64     `db:"user_id" json:"userId"`
	StartDate  time.Time `db:"start_date" json:"startDate"`
	EndDate    time.Time `db:"end_date" json:"endDate"`
	TotalPrice Money     `db:"total_price" json:"totalPrice"`
	Status     Status    `db:"status" json:"status"`
	GPS        bool      `db:"gps" json:"gps"`
	TollPass   bool      `db:"toll_pass" json:"tollPass"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// ReservationFilter narrows a reservation listing.
type ReservationFilter struct {
	UserID *int64
	CarID  *int64
	Status Status
}

// ReportRow is a reservation joined with the car attributes reports need.
type ReportRow struct {
	Reservation
	CarType  string `db:"car_type"`
	CarModel string `db:"car_model"`
}

// DailyRentals is one day of the admin rental report.
type DailyRentals struct {
	Date          string `json:"date"`
	TotalRentals  int    `json:"total_rentals"`
	TotalRevenue  Money  `json:"total_revenue"`
	CarTypes      string `json:"car_types"`
	AveragePrice  Money  `json:"average_price"`
	Cancellations int    `json:"cancellations"`
}

// UserRentals is one day of a customer's own rental report.
type UserRentals struct {
	Date       string   `json:"date"`
	Rentals    int      `json:"rentals"`
	TotalSpent Money    `json:"total_spent"`
	CarsRented []string `json:"cars_rented"`
}
