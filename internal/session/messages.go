package session

import (
	"fmt"
	"strings"
)

// User-facing messages for the error screen.
const (
	EmptyDocumentMessage = "The PDF appears to be empty or contains no extractable text. Please try another PDF."
	UnknownErrorMessage  = "An unknown error occurred. Please try again."
)

// FormatError turns a collaborator failure into the message shown to the user.
func FormatError(err error) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return UnknownErrorMessage
	}
	return fmt.Sprintf("An error occurred: %s. Please check the logs for more details or try a different PDF.", err.Error())
}

// formatRecovered converts a recovered panic value into a user-facing message.
func formatRecovered(r any) string {
	if err, ok := r.(error); ok {
		return FormatError(err)
	}
	return UnknownErrorMessage
}

// LoaderMessage is the status line shown while an attempt is in flight.
func LoaderMessage(fileName string) string {
	if fileName == "" {
		return "Processing..."
	}
	return fmt.Sprintf("Analyzing %s and crafting your plan...", fileName)
}
