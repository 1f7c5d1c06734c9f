package health

// what the health endpoint reports about the room
type Stats interface {
	UsersOnline() int
	HistorySize() int
}

// Response represents the health check response
type Response struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version,omitempty"`
	UsersOnline int    `json:"users_online"`
	HistorySize int    `json:"history_size"`
}

type PingResponse struct {
	Message string `json:"message"`
}
