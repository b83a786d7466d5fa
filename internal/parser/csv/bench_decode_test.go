package csv_test

import (
	"strings"
	"testing"

	pcsv "surveyetl/internal/parser/csv"
)

// buildExport synthesizes a semicolon export with n data rows.
func buildExport(n int) string {
	var sb strings.Builder
	sb.Grow(n * 96)
	sb.WriteString("start;end;Age Group;Gender;Vaccination Status;Healthcare visits;Exercise frequency;Water source;Sleep hours;Health insurance\n")
	for i := 0; i < n; i++ {
		sb.WriteString("2024-03-01T08:30:00;2024-03-01T08:41:22;25-34;female;yes;3;weekly;tap;7.5;yes\n")
	}
	return sb.String()
}

func BenchmarkDecode(b *testing.B) {
	in := buildExport(1000)
	dec := pcsv.NewDecoder(pcsv.Options{})

	b.ReportAllocs()
	b.SetBytes(int64(len(in)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dec.Decode(strings.NewReader(in)); err != nil {
			b.Fatal(err)
		}
	}
}
