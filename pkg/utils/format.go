package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"storagebackup/internal/models"
)

// ISOTimeLayout is ISO 8601 in UTC with millisecond precision.
const ISOTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func MarshalJSON(data interface{}) ([]byte, error) {
	jsonOutput, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return jsonOutput, nil
}

func PrintJSON(w io.Writer, data interface{}) error {
	jsonOutput, err := MarshalJSON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

func PrintError(w io.Writer, err error, command string) {
	errorResp := models.ErrorResponse{
		Error:     err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
		Command:   command,
	}
	err = PrintJSON(w, errorResp)
	if err != nil {
		slog.Error("Failed to print error in JSON format", "error", err)
		fmt.Fprintln(w, "Error: ", errorResp.Error)
		return
	}
}

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func FormatISOTime(t time.Time) string {
	return t.UTC().Format(ISOTimeLayout)
}
