package upstream

import "encoding/json"

// Envelope is the response wrapper the LegalBooks API uses on most endpoints.
type Envelope struct {
	Status     bool            `json:"status"`
	StatusCode int             `json:"status_code,omitempty"`
	Msg        string          `json:"msg,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// City is one selectable city nested under a state.
type City struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// State is one selectable state with its nested cities.
type State struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Cities []City `json:"cities"`
}

// Specialization is a fine-grained skill tag nested under one practice area.
type Specialization struct {
	ID   int    `json:"id"`
	Name string `json:"specialization_name"`
}

// Practice is a top-level legal specialty with nested specializations.
type Practice struct {
	ID              int              `json:"id"`
	Name            string           `json:"practice_name"`
	Specializations []Specialization `json:"specializations"`
}

// Court is a selectable court entry.
type Court struct {
	ID        int    `json:"id"`
	CourtType string `json:"court_type"`
	State     string `json:"state"`
	District  string `json:"district"`
	Court     string `json:"court"`
}

// Fields is the register-fields payload: everything the registration form
// needs to populate its dropdowns.
type Fields struct {
	States     []State    `json:"states"`
	Practices  []Practice `json:"practices"`
	CourtTypes []string   `json:"court_types"`
	Courts     []Court    `json:"courts"`
}

// Role is one registrant role (firm, lawyer, intern, visitor).
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// OTPRequest is the body for both the generate and validate endpoints.
type OTPRequest struct {
	Entity      string `json:"entity"`
	EntityType  string `json:"entity_type"`
	RequestType string `json:"request_type"`
	OTP         int    `json:"otp,omitempty"`
}

// TokenPair is the create/refresh token response. Refresh and UserDetails are
// optional on refresh.
type TokenPair struct {
	Access      string          `json:"access"`
	Refresh     string          `json:"refresh,omitempty"`
	UserDetails json.RawMessage `json:"user_details,omitempty"`
}

// GoogleProfile is the data block of a successful Google auth exchange.
type GoogleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Notification is one dashboard notification.
type Notification struct {
	ID        int    `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	Read      bool   `json:"read"`
}

// RegisterPayload is the multipart registration submission. Scalar fields are
// sent as string parts; SecondaryAreas is JSON-encoded; Photo is a binary
// part when non-empty.
type RegisterPayload struct {
	Role             string
	FirstName        string
	LastName         string
	FirmName         string
	Email            string
	Mobile           string
	Address          string
	State            string
	City             string
	Pincode          string
	ExperienceYears  int
	ExperienceMonths int
	About            string
	PrimaryArea      int
	SecondaryAreas   []int
	Courts           string
	Password         string
	PhotoName        string
	Photo            []byte
}

// RegisterResult reports what the registration endpoint decided.
type RegisterResult struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
}
