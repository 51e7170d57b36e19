package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/motionkit/internal/analysis"
	"github.com/san-kum/motionkit/internal/dynamo"
	"github.com/san-kum/motionkit/internal/easing"
	"github.com/san-kum/motionkit/internal/export"
	"github.com/san-kum/motionkit/internal/spring"
	"github.com/san-kum/motionkit/internal/storage"
)

// openRecording resolves an id prefix and loads its metadata and samples.
func openRecording(prefix string) (*storage.Recording, *dynamo.Result, error) {
	st := storage.New(dataDir)
	id, err := st.Resolve(prefix)
	if err != nil {
		return nil, nil, err
	}
	rec, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadSamples(id)
	if err != nil {
		return nil, nil, err
	}
	if len(result.States) == 0 {
		return nil, nil, fmt.Errorf("recording %s has no samples", id)
	}
	return rec, result, nil
}

func listRecordings(cmd *cobra.Command, args []string) error {
	recs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no recordings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tCREATED\tSTEPS\tDURATION\tINTEG")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2fs\t%s\n",
			r.ID[:min(8, len(r.ID))],
			r.Kind,
			r.Name,
			humanize.Time(r.Created),
			humanize.Comma(int64(r.Steps)),
			r.Duration,
			r.Integrator,
		)
	}
	return w.Flush()
}

func plotRecording(cmd *cobra.Command, args []string) error {
	rec, result, err := openRecording(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("recording: %s\n", rec.ID)
	fmt.Printf("%s %s, %s samples\n\n", rec.Kind, rec.Name, humanize.Comma(int64(len(result.States))))

	dim := len(result.States[0])
	captions := []string{"position", "velocity"}
	for i := 0; i < min(dim, 4); i++ {
		caption := fmt.Sprintf("x%d", i)
		if dim == 2 {
			caption = captions[i]
		}
		fmt.Println(asciigraph.Plot(result.Column(i),
			asciigraph.Height(10),
			asciigraph.Width(72),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}
	printMetrics(rec.Metrics)
	return nil
}

func analyzeRecording(cmd *cobra.Command, args []string) error {
	rec, result, err := openRecording(args[0])
	if err != nil {
		return err
	}
	if len(result.States[0]) <= max(xAxis, yAxis) {
		return fmt.Errorf("state dimension too small for selected axes")
	}

	fmt.Printf("frequency analysis: %s\n\n", rec.ID)

	pos := result.Column(0)
	ps := analysis.PowerSpectrum(pos)
	if len(ps) > 4 {
		fmt.Println(asciigraph.Plot(ps[:len(ps)/2],
			asciigraph.Height(10),
			asciigraph.Width(72),
			asciigraph.Caption("power spectrum (x0)"),
		))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(pos, rec.Dt)
	if freq > 0 {
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		fmt.Printf("period: %.3f s\n", 1/freq)
	} else {
		fmt.Println("no oscillation")
	}
	p := spring.Params{Stiffness: rec.Params["stiffness"], Damping: rec.Params["damping"], Mass: rec.Params["mass"]}
	if omega := spring.AngularFrequency(p); omega > 0 {
		fmt.Printf("natural frequency: %.3f hz (damping ratio %.3f)\n", omega/(2*math.Pi), spring.DampingRatio(p))
	}

	fmt.Printf("\nphase portrait (x%d vs x%d)\n", xAxis, yAxis)
	var rest analysis.Point
	if xAxis == 0 {
		rest.X = rec.Params["target"]
	}
	fmt.Println(analysis.Phase(result, xAxis, yAxis, rest).ASCII(72, 20))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := openRecording(args[0])
	if err != nil {
		return err
	}
	return writeOutput(output, func(f *os.File) error {
		return storage.WriteCSV(f, result)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	rec, result, err := openRecording(args[0])
	if err != nil {
		return err
	}
	return writeOutput(output, func(f *os.File) error {
		return storage.WriteJSON(f, *rec, result)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	opts := export.DefaultOptions()
	var svg string
	switch {
	case curve != "":
		f, err := easing.Parse(curve)
		if err != nil {
			return err
		}
		svg = export.CurveSVG(f, 200, "#ff5a36", opts)
	case len(args) == 1:
		rec, result, err := openRecording(args[0])
		if err != nil {
			return err
		}
		var target *float64
		if t, ok := rec.Params["target"]; ok {
			target = &t
		}
		svg = export.TraceSVG(result.Times, result.Column(0), target, "#ff5a36", opts)
	default:
		return fmt.Errorf("need a recording id or --curve")
	}
	return writeOutput(output, func(f *os.File) error {
		_, err := f.WriteString(svg)
		return err
	})
}

func deleteRecording(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	id, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func minMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi
}
