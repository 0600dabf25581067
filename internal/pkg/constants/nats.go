package constants

// NATS Subjects
const (
	SubjectSMSOTPRequested = "sms.otp.requested"
)
