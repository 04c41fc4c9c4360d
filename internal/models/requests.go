package models

// WindowRequest is the direct-API payload for declaring availability.
type WindowRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// BookingRequest is the direct-API payload for booking a slot. TimeslotID is
// accepted for wire compatibility but the slot is matched purely by
// (date, start_time); see the ledger.
type BookingRequest struct {
	UserName   string `json:"user_name"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	TimeslotID int64  `json:"timeslot_id"`
}

// RescheduleRequest moves an existing appointment to a new slot.
type RescheduleRequest struct {
	UserName  string `json:"user_name"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

// SynthesizeRequest asks the speech collaborator to voice a text.
type SynthesizeRequest struct {
	Text string `json:"text"`
}
