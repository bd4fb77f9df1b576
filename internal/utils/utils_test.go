package utils

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

func TestConvertStrToUint32(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint32
		wantErr bool
	}{
		{name: "decimal", in: "4096", want: 0x1000},
		{name: "hex", in: "0x1000", want: 0x1000},
		{name: "upper hex prefix", in: "0X1000", wantErr: true},
		{name: "hex digits", in: "0xdeadBEEF", want: 0xdeadbeef},
		{name: "zero", in: "0", want: 0},
		{name: "surrounding space", in: " 0x10 ", wantErr: true},
		{name: "trailing newline", in: "4096\n", wantErr: true},
		{name: "plus sign", in: "+4096", wantErr: true},
		{name: "underscores", in: "0x1_000", wantErr: true},
		{name: "max", in: "0xffffffff", want: 0xffffffff},
		{name: "too big", in: "0x100000000", wantErr: true},
		{name: "hex without prefix", in: "1000a", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "bare prefix", in: "0x", wantErr: true},
		{name: "negative", in: "-1", wantErr: true},
		{name: "garbage", in: "base", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertStrToUint32(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConvertStrToUint32(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ConvertStrToUint32(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertStrToUint32Equivalence(t *testing.T) {
	for _, n := range []uint32{0, 1, 0x1000, 0x7fffffff, 0xfffff000} {
		hex, err := ConvertStrToUint32("0x" + strconv.FormatUint(uint64(n), 16))
		if err != nil {
			t.Fatal(err)
		}
		dec, err := ConvertStrToUint32(strconv.FormatUint(uint64(n), 10))
		if err != nil {
			t.Fatal(err)
		}
		if hex != dec {
			t.Errorf("hex %#x != decimal %#x", hex, dec)
		}
	}
}

func TestPad(t *testing.T) {
	if got := Pad(0); got != " " {
		t.Errorf("Pad(0) = %q", got)
	}
	if got := Pad(3); got != "   " {
		t.Errorf("Pad(3) = %q", got)
	}
}

func TestIndent(t *testing.T) {
	var buf bytes.Buffer
	origWriter := cli.Default.Writer
	defer func() { cli.Default.Writer = origWriter }()
	cli.Default.Writer = &buf

	logger := &log.Logger{Handler: cli.Default, Level: log.InfoLevel}
	Indent(logger.Info, 2)("nested")
	logger.Info("top")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	nested := strings.Repeat(" ", 2*normalPadding) + "•"
	top := strings.Repeat(" ", normalPadding) + "•"
	if !strings.Contains(lines[0], nested) {
		t.Errorf("nested line not indented: %q", lines[0])
	}
	if strings.Contains(lines[1], nested) || !strings.Contains(lines[1], top) {
		t.Errorf("top line padding not restored: %q", lines[1])
	}
	if cli.Default.Padding != normalPadding {
		t.Errorf("padding = %d, want %d", cli.Default.Padding, normalPadding)
	}
}
