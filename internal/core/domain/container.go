package domain

// Container represents a running (or exited) service container.
type Container struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Status    string `json:"status"`
	State     string `json:"state"` // running, exited, etc.
	User      string `json:"user"`  // runtime identity the process executes as
	IPAddress string `json:"ip_address"`
	Port      int    `json:"port"`
}
