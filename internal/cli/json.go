package cli

import (
	"encoding/json"
	"os"
)

// Response is the JSON envelope wikid's --json commands emit.
type Response struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
}

func outputSuccess(data interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(Response{OK: true, Data: data})
}

func isJSONOutput() bool {
	return jsonOutput
}
