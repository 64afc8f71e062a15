// Package notify renders user-facing CLI messages with consistent symbols
// and colors. It is presentation only; diagnostics belong to the task logger.
package notify
