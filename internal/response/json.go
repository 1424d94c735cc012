package response

import (
	"encoding/json"
	"io"
)

// JSON writes payload as indented JSON followed by a newline.
func JSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
