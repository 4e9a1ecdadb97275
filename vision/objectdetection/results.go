package objectdetection

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/ssd/utils"
)

const resultFields = 6

// Result is one line of a result file. Coordinates are in pixels.
type Result struct {
	Label string
	Score float64
	Box   Box
}

// WriteResults appends one tab separated line per detection scoring at least threshold to the
// file at path, creating it if needed:
//
//	label \t score \t xmin \t ymin \t xmax \t ymax
//
// dets carry normalized boxes; they are written in pixels of a width x height image.
func WriteResults(path string, dets []Detection, labels Labels, threshold float64, width, height int) (err error) {
	//nolint:gosec
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return utils.NewIOError(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Combine(err, utils.NewIOError(path, cerr))
		}
	}()

	w := bufio.NewWriter(f)
	for _, d := range Denormalize(NewScoreFilter(threshold)(dets), width, height) {
		line := strings.Join([]string{
			labelReplacer.Replace(labels.Name(d.ClassID)),
			formatScore(d.Score),
			formatCoord(d.Box.XMin),
			formatCoord(d.Box.YMin),
			formatCoord(d.Box.XMax),
			formatCoord(d.Box.YMax),
		}, "\t")
		if _, err := w.WriteString(line + "\n"); err != nil {
			return utils.NewIOError(path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return utils.NewIOError(path, err)
	}
	return nil
}

// labelReplacer keeps a label on one field of one line.
var labelReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// scores come straight from float32 model output.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}

// coordinates are pixels, kept to 1e-5 with trailing zeros dropped.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 5, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// ReadResults parses lines written by WriteResults. Blank lines are skipped.
func ReadResults(r io.Reader) ([]Result, error) {
	var out []Result
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != resultFields {
			return nil, errors.Errorf("line %d: expected %d fields, got %d", line, resultFields, len(fields))
		}
		var vals [resultFields - 1]float64
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			vals[i] = v
		}
		out = append(out, Result{
			Label: fields[0],
			Score: vals[0],
			Box:   Box{vals[1], vals[2], vals[3], vals[4]},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadResultsFile reads the result file at path.
func ReadResultsFile(path string) ([]Result, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewInputError(path, err)
	}
	defer utils.UncheckedErrorFunc(f.Close)
	res, err := ReadResults(f)
	if err != nil {
		return nil, utils.NewInputError(path, err)
	}
	return res, nil
}
