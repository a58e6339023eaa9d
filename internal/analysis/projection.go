package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// ProjectionXFile holds the column-sum projection, one integer per line.
	ProjectionXFile = "projection_x.txt"
	// ProjectionYFile holds the row-sum projection, one integer per line.
	ProjectionYFile = "projection_y.txt"
)

// SaveProjections writes both projection sequences as newline-delimited
// integer text files under dir.
func (s *Statistics) SaveProjections(dir string) error {
	if err := writeIntColumn(filepath.Join(dir, ProjectionXFile), s.ProjectionX); err != nil {
		return fmt.Errorf("failed to write column projection: %w", err)
	}
	if err := writeIntColumn(filepath.Join(dir, ProjectionYFile), s.ProjectionY); err != nil {
		return fmt.Errorf("failed to write row projection: %w", err)
	}
	return nil
}

func writeIntColumn(path string, values []int64) error {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
