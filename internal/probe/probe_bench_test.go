package probe

import (
	"fmt"
	"strings"
	"testing"
)

// BenchmarkAnalyze measures probing a sample of realistic size: a wide survey
// header plus a few hundred rows, roughly what a 64 KiB range request yields.
func BenchmarkAnalyze(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("start;end;Age Group?;Gender;Vaccination Status;Healthcare visits;Exercise;Water source;Sleep hours;Insurance\n")
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&sb, "2024-05-01T08:30:00Z;2024-05-01T08:41:12Z;18-25;female;yes;%d;daily;tap;7.5;none\n", i%9)
	}
	sample := []byte(sb.String())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Analyze(sample, ';'); err != nil {
			b.Fatalf("Analyze() error = %v", err)
		}
	}
}
