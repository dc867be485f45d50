// Package model contains the domain structs shared by the repository, service and HTTP layers.
// They carry JSON tags only; persistence details live in the repository implementations.
package model

// Patient statuses, in the order a visit moves through them.
const (
	PatientWaiting   = "waiting"
	PatientDone      = "Done"
	PatientDispensed = "dispensed"
)

// Doctor statuses.
const (
	DoctorPending  = "pending"
	DoctorApproved = "approved"
	DoctorRejected = "rejected"
)

// Payment statuses.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
)
