package models

// Dashboard — всё, что нужно экрану выбора события, одним ответом.
type Dashboard struct {
	Tours     []Tour             `json:"tours"`
	Locations []Location         `json:"locations"`
	Events    []Event            `json:"events"`
	SideGames []SideGame         `json:"side_games"`
	Selected  *DashboardSelection `json:"selected,omitempty"`
}

// DashboardSelection — предвыбранные тур, поле и событие из ссылки ?event_id=.
type DashboardSelection struct {
	Tour     *Tour        `json:"tour,omitempty"`
	Location *Location    `json:"location,omitempty"`
	Event    EventDetails `json:"event"`
}
