package catalog

type Station struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AvailableBikes int     `json:"availableBikes"`
	TotalDocks     int     `json:"totalDocks"`
	OpeningTime    string  `json:"openingTime"`
	ClosingTime    string  `json:"closingTime"`
	ImageURL       string  `json:"imageUrl"`
}

type Bike struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	BatteryLevel int    `json:"batteryLevel"`
	WheelSize    string `json:"wheelSize"`
	Gears        string `json:"gears"`
	Condition    string `json:"condition"`
	ImageURL     string `json:"imageUrl"`
	StationID    int    `json:"stationId"`
}
