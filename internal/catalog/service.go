package catalog

import (
	"context"

	"backend-biketrack/internal/db"
)

// Service reads station and bike reference data. The catalog itself is
// owned by the booking side of the product; this service never writes.
type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Stations(ctx context.Context) ([]Station, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, address, lat, lng, available_bikes, total_docks, opening_time, closing_time, image_url
		FROM stations
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Address, &st.Lat, &st.Lng, &st.AvailableBikes, &st.TotalDocks, &st.OpeningTime, &st.ClosingTime, &st.ImageURL); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, nil
}

func (s *Service) Bike(ctx context.Context, id int) (Bike, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, type, battery_level, wheel_size, gears, condition, image_url, station_id
		FROM bikes
		WHERE id = $1
	`, id)

	var b Bike
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Type, &b.BatteryLevel, &b.WheelSize, &b.Gears, &b.Condition, &b.ImageURL, &b.StationID); err != nil {
		return Bike{}, err
	}
	return b, nil
}

func (s *Service) StationBikes(ctx context.Context, stationID int) ([]Bike, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, type, battery_level, wheel_size, gears, condition, image_url, station_id
		FROM bikes
		WHERE station_id = $1
		ORDER BY id
	`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bikes []Bike
	for rows.Next() {
		var b Bike
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Type, &b.BatteryLevel, &b.WheelSize, &b.Gears, &b.Condition, &b.ImageURL, &b.StationID); err != nil {
			return nil, err
		}
		bikes = append(bikes, b)
	}
	return bikes, nil
}
