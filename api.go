package main

// APIResponse is returned when an event has been accepted.
type APIResponse struct {
	Event string `json:"event"`
}

type APIError struct {
	Message string `json:"message"`
}
