package ingest

import (
	"bytes"
	"fmt"
	"io"
	"testing"
)

// BenchmarkSanitize_ValidASCII covers the fast path taken by most uploads.
func BenchmarkSanitize_ValidASCII(b *testing.B) {
	data := bytes.Repeat([]byte("Valid UTF-8 line with numbers 12345\n"), 300)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sanitize(data, true)
	}
}

func BenchmarkSanitize_Mixed(b *testing.B) {
	data := bytes.Repeat([]byte("Caf\xe9 über \xff\xfe ok\n"), 300)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sanitize(data, true)
	}
}

// BenchmarkReadCSV benchmarks the full text reader plus CSV parse.
func BenchmarkReadCSV(b *testing.B) {
	for _, rows := range []int{100, 1000} {
		data := generateTestCSV(rows)
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := ReadCSV(bytes.NewReader(data)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTextReader_BOM(b *testing.B) {
	data := append([]byte("\xef\xbb\xbf"), generateTestCSV(1000)...)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, NewTextReader(bytes.NewReader(data)))
	}
}

func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	buf.WriteString("Invoice,Vendor,Date,Amount,Status\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&buf, "INV-%d,\"Acme, Inc\",01/15/2024,\"$1,234.56\",open\n", 1000+i)
	}
	return buf.Bytes()
}
