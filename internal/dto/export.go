package dto

// ExportRequest asks for a timetable export in the given format.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf xlsx ics"`
}
