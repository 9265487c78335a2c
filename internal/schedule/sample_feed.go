package schedule

// SampleFeed returns a static slice of raw schedule records for the demo
// deployment. The feed deliberately repeats flights across calendar dates the
// way the upstream source does; normalization collapses them.
func SampleFeed() []RawFlight {
	return []RawFlight{
		// Emirates DXB rotation
		{Airline: "EK", FlightNumber: "EK652", DepartureAirport: "DXB", ArrivalAirport: "MLE", DepartureTime: "2026-09-01T04:15:00+04:00", ArrivalTime: "2026-09-01T08:25:00+05:00"},
		{Airline: "EK", FlightNumber: "EK652", DepartureAirport: "DXB", ArrivalAirport: "MLE", DepartureTime: "2026-09-02T04:15:00+04:00", ArrivalTime: "2026-09-02T08:25:00+05:00"},
		{Airline: "EK", FlightNumber: "EK653", DepartureAirport: "MLE", ArrivalAirport: "DXB", DepartureTime: "2026-09-01T22:35:00+05:00", ArrivalTime: "2026-09-02T01:40:00+04:00"},
		{Airline: "EK", FlightNumber: "EK653", DepartureAirport: "MLE", ArrivalAirport: "DXB", DepartureTime: "2026-09-02T22:35:00+05:00", ArrivalTime: "2026-09-03T01:40:00+04:00"},

		// Qatar DOH rotation
		{Airline: "QR", FlightNumber: "QR672", DepartureAirport: "DOH", ArrivalAirport: "MLE", DepartureTime: "2026-09-01T02:05:00+03:00", ArrivalTime: "2026-09-01T09:10:00+05:00"},
		{Airline: "QR", FlightNumber: "QR672", DepartureAirport: "DOH", ArrivalAirport: "MLE", DepartureTime: "2026-09-02T02:05:00+03:00", ArrivalTime: "2026-09-02T09:10:00+05:00"},
		{Airline: "QR", FlightNumber: "QR673", DepartureAirport: "MLE", ArrivalAirport: "DOH", DepartureTime: "2026-09-01T21:55:00+05:00", ArrivalTime: "2026-09-02T00:05:00+03:00"},

		// Turkish IST rotation
		{Airline: "TK", FlightNumber: "TK730", DepartureAirport: "IST", ArrivalAirport: "MLE", DepartureTime: "2026-09-01T01:45:00+03:00", ArrivalTime: "2026-09-01T10:45:00+05:00"},
		{Airline: "TK", FlightNumber: "TK731", DepartureAirport: "MLE", ArrivalAirport: "IST", DepartureTime: "2026-09-01T20:50:00+05:00", ArrivalTime: "2026-09-02T02:45:00+03:00"},

		// Singapore SIN rotation
		{Airline: "SQ", FlightNumber: "SQ452", DepartureAirport: "SIN", ArrivalAirport: "MLE", DepartureTime: "2026-09-01T09:40:00+08:00", ArrivalTime: "2026-09-01T11:05:00+05:00"},
		{Airline: "SQ", FlightNumber: "SQ451", DepartureAirport: "MLE", ArrivalAirport: "SIN", DepartureTime: "2026-09-01T23:55:00+05:00", ArrivalTime: "2026-09-02T07:50:00+08:00"},

		// Etihad AUH rotation
		{Airline: "EY", FlightNumber: "EY278", DepartureAirport: "AUH", ArrivalAirport: "MLE", DepartureTime: "2026-09-01T09:05:00+04:00", ArrivalTime: "2026-09-01T13:20:00+05:00"},
		{Airline: "EY", FlightNumber: "EY279", DepartureAirport: "MLE", ArrivalAirport: "AUH", DepartureTime: "2026-09-01T22:30:00+05:00", ArrivalTime: "2026-09-02T01:10:00+04:00"},

		// Aeroflot SVO rotation
		{Airline: "SU", FlightNumber: "SU320", DepartureAirport: "SVO", ArrivalAirport: "MLE", DepartureTime: "2026-09-01T00:40:00+03:00", ArrivalTime: "2026-09-01T11:35:00+05:00"},
		{Airline: "SU", FlightNumber: "SU321", DepartureAirport: "MLE", ArrivalAirport: "SVO", DepartureTime: "2026-09-01T13:30:00+05:00", ArrivalTime: "2026-09-01T19:25:00+03:00"},
	}
}
