package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/twosprings/internal/dynamo"
)

// NumColumns is the number of fields per record: t x1 y1 x2 y2.
const NumColumns = 5

// WriteAtomic writes through a temporary file in the destination directory
// and renames it over path once write has succeeded, so readers never see
// a partial file.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Save writes traj to path, one "t x1 y1 x2 y2" line per sample. An
// existing file is replaced.
func Save(path string, traj *dynamo.Trajectory) error {
	if len(traj.Times) != len(traj.States) {
		return fmt.Errorf("%w: %d times, %d states", dynamo.ErrDimensionMismatch, len(traj.Times), len(traj.States))
	}
	for i, s := range traj.States {
		if len(s) != NumColumns-1 {
			return fmt.Errorf("%w: sample %d has %d components, want %d",
				dynamo.ErrDimensionMismatch, i, len(s), NumColumns-1)
		}
	}

	err := WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, traj)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Encode writes the text form of traj to w.
func Encode(w io.Writer, traj *dynamo.Trajectory) error {
	var sb strings.Builder
	for i, t := range traj.Times {
		sb.Reset()
		sb.WriteString(FormatFloat(t))
		for _, v := range traj.States[i] {
			sb.WriteByte(' ')
			sb.WriteString(FormatFloat(v))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatFloat renders v in the shortest form that parses back to the same
// float64. Integral values keep a ".0" suffix so they still read as reals.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}

// Load reads a file written by Save. Blank lines are skipped; every other
// line must hold exactly five numbers.
func Load(path string) (*dynamo.Trajectory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	traj, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return traj, nil
}

// Decode parses the text form produced by Encode.
func Decode(r io.Reader) (*dynamo.Trajectory, error) {
	traj := &dynamo.Trajectory{
		Times:  make([]float64, 0),
		States: make([]dynamo.State, 0),
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != NumColumns {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNo, NumColumns, len(fields))
		}

		row := make([]float64, NumColumns)
		for j, f := range fields {
			val, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, field %d: %w", lineNo, j+1, err)
			}
			row[j] = val
		}

		traj.Times = append(traj.Times, row[0])
		traj.States = append(traj.States, dynamo.State(row[1:]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return traj, nil
}
