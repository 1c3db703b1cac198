package viewmodels

type Actor struct {
	ID            string  `json:"id"`
	DisplayName   string  `json:"display_name"`
	Email         string  `json:"email"`
	Tier          string  `json:"tier"`
	AdvisorID     *string `json:"advisor_id,omitempty"`
	OfficeID      *string `json:"office_id,omitempty"`
	DistributorID *string `json:"distributor_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
