package dataframe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Load reads a CSV file into a frame. The first record is the header;
// empty fields load as nulls; short records pad with nulls the way ragged
// CSV exports usually intend.
func Load(nam, path string) (*Frame, error) {
	fl, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataframe: %w", err)
	}
	defer fl.Close()

	f, err := Read(nam, fl)
	if err != nil {
		return nil, fmt.Errorf("dataframe: %s: %w", path, err)
	}
	return f, nil
}

func Read(nam string, r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header record")
	} else if err != nil {
		return nil, err
	}

	f, err := New(nam, hdr)
	if err != nil {
		return nil, err
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		row := make([]Value, len(hdr))
		for cdx := range row {
			if cdx >= len(rec) || rec[cdx] == "" {
				row[cdx] = NullValue()
			} else {
				row[cdx] = StringValue(rec[cdx])
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

func (f *Frame) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return fmt.Errorf("dataframe: %s: %w", f.Name, err)
	}

	rec := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for cdx, v := range row {
			if v.Null {
				rec[cdx] = ""
			} else {
				rec[cdx] = v.S
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("dataframe: %s: %w", f.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (f *Frame) WriteFile(path string) error {
	fl, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataframe: %w", err)
	}
	err = f.Write(fl)
	if cerr := fl.Close(); err == nil {
		err = cerr
	}
	return err
}
