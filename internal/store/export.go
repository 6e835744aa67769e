package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/yungbote/maiopinion/internal/domain"
)

// Exporter is implemented by stores that can copy their backing file as-is.
type Exporter interface {
	Export(dst string) error
}

// Export writes every row of st to dst in the patient file format.
func Export(ctx context.Context, st PatientStore, dst string) error {
	if ex, ok := st.(Exporter); ok {
		return ex.Export(dst)
	}
	rows, err := st.All(ctx)
	if err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := WriteCSV(out, rows); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func WriteCSV(w io.Writer, rows []domain.Patient) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(Header)
	for _, p := range rows {
		_ = cw.Write(toRecord(p))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
