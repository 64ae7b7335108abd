package eval

import (
	"encoding/json"
)

// JSONFormatter renders an evaluation summary as JSON.
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for a summary.
func (jf *JSONFormatter) Format(summary *Summary) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
