package loader

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{name: "empty", sample: "", want: ','},
		{name: "no candidates", sample: "abc def", want: ','},
		{name: "comma", sample: "x,y\n1,2", want: ','},
		{name: "tie keeps comma", sample: "a,b,c;d;e", want: ','},
		{name: "more semicolons", sample: "a;b;c,d", want: ';'},
		{name: "one comma two semicolons", sample: "a,b;c;d", want: ';'},
		{name: "tab", sample: "a\tb\tc\n1\t2\t3", want: '\t'},
		{name: "pipe", sample: "a|b|c", want: '|'},
		{name: "semicolon beats tab", sample: "a;b;c\td\te\tf", want: ';'},
		{name: "tab checked before pipe", sample: "a\tb|c|d|e", want: '\t'},
		{name: "pipe only when tab loses", sample: "a,b\tc|d|e", want: '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.sample); got != tt.want {
				t.Fatalf("Sniff(%q) = %q, want %q", tt.sample, got, tt.want)
			}
		})
	}
}

func TestSniffDeterministic(t *testing.T) {
	sample := "a;b|c\td,e;f|g"
	first := Sniff(sample)
	for i := 0; i < 10; i++ {
		if got := Sniff(sample); got != first {
			t.Fatalf("expected %q on every call, got %q", first, got)
		}
	}
}

func TestReadSampleRewinds(t *testing.T) {
	content := strings.Repeat("a;b\n", 600)
	r := strings.NewReader(content)
	sample, err := ReadSample(r)
	if err != nil {
		t.Fatalf("ReadSample failed: %v", err)
	}
	if len(sample) != SampleSize {
		t.Fatalf("expected %d byte sample, got %d", SampleSize, len(sample))
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read after sample: %v", err)
	}
	if string(rest) != content {
		t.Fatalf("expected reader to be rewound to the start")
	}
}

func TestReadSampleDropsSplitRune(t *testing.T) {
	prefix := strings.Repeat("a", SampleSize-1)
	content := prefix + "é,b\n"
	sample, err := ReadSample(strings.NewReader(content))
	if err != nil {
		t.Fatalf("expected split rune to be tolerated, got %v", err)
	}
	if sample != prefix {
		t.Fatalf("expected partial rune to be trimmed, got %d bytes", len(sample))
	}
}

func TestReadSampleInvalidUTF8(t *testing.T) {
	_, err := ReadSample(bytes.NewReader([]byte("x,y\n\xff,1\n")))
	pe := asParseError(t, err)
	if pe.Kind != DecodeFailure {
		t.Fatalf("expected DecodeFailure, got %v", pe.Kind)
	}
	if pe.Line != 2 {
		t.Fatalf("expected line 2, got %d", pe.Line)
	}
}

func TestReadSampleSkipsBOM(t *testing.T) {
	sample, err := ReadSample(strings.NewReader("\ufeffa;b;c,d"))
	if err != nil {
		t.Fatalf("ReadSample failed: %v", err)
	}
	if strings.HasPrefix(sample, "\ufeff") {
		t.Fatalf("expected BOM to be stripped")
	}
	if Sniff(sample) != ';' {
		t.Fatalf("expected ';' delimiter")
	}
}
