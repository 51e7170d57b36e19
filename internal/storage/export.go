package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/motionkit/internal/dynamo"
)

// WriteCSV writes one row per recorded state: time, state components x0..xn
// and input components u0..um. The final state has no input; its u columns
// repeat the last input so the target stays visible in plots.
func WriteCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if len(result.States) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	numInputs := 0
	if len(result.Inputs) > 0 {
		numInputs = len(result.Inputs[0])
		for i := 0; i < numInputs; i++ {
			header = append(header, fmt.Sprintf("u%d", i))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{formatFloat(timeAt(result, i))}
		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}
		if numInputs > 0 {
			u := result.Inputs[min(i, len(result.Inputs)-1)]
			for j := 0; j < numInputs; j++ {
				v := 0.0
				if j < len(u) {
					v = u[j]
				}
				row = append(row, formatFloat(v))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func timeAt(r *dynamo.Result, i int) float64 {
	if i < len(r.Times) {
		return r.Times[i]
	}
	return 0
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

type ExportData struct {
	Recording
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
	Inputs [][]float64 `json:"inputs"`
}

// WriteJSON writes the recording metadata together with its full trace.
func WriteJSON(w io.Writer, rec Recording, result *dynamo.Result) error {
	data := ExportData{
		Recording: rec,
		Times:     result.Times,
		States:    make([][]float64, len(result.States)),
		Inputs:    make([][]float64, len(result.Inputs)),
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, u := range result.Inputs {
		data.Inputs[i] = u
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
