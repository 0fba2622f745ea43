package domain

// ProjectStats são os contadores de agendamentos e ligações de um projeto
type ProjectStats struct {
	AdSpend        float64 `json:"adSpend" yaml:"adSpend"`
	Leads          int     `json:"leads" yaml:"leads"`
	Bookings       int     `json:"bookings" yaml:"bookings"`
	Shows          int     `json:"shows" yaml:"shows"`
	NoShows        int     `json:"noShows" yaml:"noShows"`
	Cancellations  int     `json:"cancellations" yaml:"cancellations"`
	TotalCalls     int     `json:"totalCalls" yaml:"totalCalls"`
	ConnectedCalls int     `json:"connectedCalls" yaml:"connectedCalls"`
	ShowRate       float64 `json:"showRate" yaml:"showRate"`
	BookingRate    float64 `json:"bookingRate" yaml:"bookingRate"`
	ConnectRate    float64 `json:"connectRate" yaml:"connectRate"`
	CostPerLead    float64 `json:"costPerLead" yaml:"costPerLead"`
	CostPerBooking float64 `json:"costPerBooking" yaml:"costPerBooking"`
}

// TrendData é um ponto da série temporal, indexado pela data ISO
type TrendData struct {
	Date     string  `json:"date" yaml:"date"`
	Leads    int     `json:"leads" yaml:"leads"`
	AdSpend  float64 `json:"adSpend" yaml:"adSpend"`
	Bookings int     `json:"bookings" yaml:"bookings"`
	Shows    int     `json:"shows" yaml:"shows"`
	NoShows  int     `json:"noShows" yaml:"noShows"`
	Calls    int     `json:"calls" yaml:"calls"`
}

// FullDataMetrics junta os contadores com a receita estimada e a tendência
type FullDataMetrics struct {
	ProjectStats `yaml:",inline"`
	Procedures   int         `json:"procedures" yaml:"procedures"`
	Revenue      float64     `json:"revenue" yaml:"revenue"`
	Trend        []TrendData `json:"trend,omitempty" yaml:"trend,omitempty"`
}
