package pdf

import (
	"reflect"
	"testing"
)

func TestParseContent_Operations(t *testing.T) {
	ops, err := parseContent([]byte("BT /F1 12 Tf 72 712 Td (Hello) Tj ET"))
	if err != nil {
		t.Fatalf("parseContent() error = %v", err)
	}

	var operators []string
	for _, op := range ops {
		operators = append(operators, op.operator)
	}
	if want := []string{"BT", "Tf", "Td", "Tj", "ET"}; !reflect.DeepEqual(operators, want) {
		t.Fatalf("operators = %v, want %v", operators, want)
	}

	tf := ops[1]
	if len(tf.operands) != 2 || tf.operands[0] != name("F1") || tf.operands[1] != 12.0 {
		t.Errorf("Tf operands = %#v", tf.operands)
	}
	if got := string(ops[3].raw); got != "(Hello) Tj" {
		t.Errorf("Tj raw = %q, want %q", got, "(Hello) Tj")
	}
}

func TestParseContent_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "(abc) Tj", "abc"},
		{"nested parens", "(a (b) c) Tj", "a (b) c"},
		{"escaped parens", `(a \( b \)) Tj`, "a ( b )"},
		{"escapes", `(tab\there\nnl\\) Tj`, "tab\there\nnl\\"},
		{"octal", `(\101\102C) Tj`, "ABC"},
		{"line continuation", "(ab\\\ncd) Tj", "abcd"},
		{"hex", "<48656C6C6F> Tj", "Hello"},
		{"hex with spaces", "<48 65 6c 6c 6f> Tj", "Hello"},
		{"hex odd length", "<414> Tj", "A@"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := parseContent([]byte(tt.input))
			if err != nil {
				t.Fatalf("parseContent() error = %v", err)
			}
			if len(ops) != 1 || len(ops[0].operands) != 1 {
				t.Fatalf("ops = %#v", ops)
			}
			got, ok := ops[0].operands[0].(pdfString)
			if !ok {
				t.Fatalf("operand = %#v, want string", ops[0].operands[0])
			}
			if string(got) != tt.want {
				t.Errorf("string = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseContent_ArraysDictsAndKeywords(t *testing.T) {
	ops, err := parseContent([]byte("[(A) -250 (B)] TJ /P <</MCID 3 /Alt (x)>> BDC true null Foo"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 3 {
		t.Fatalf("got %d ops, want 3", len(ops))
	}

	arr, ok := ops[0].operands[0].([]any)
	if !ok || len(arr) != 3 || arr[1] != -250.0 {
		t.Errorf("TJ operand = %#v", ops[0].operands[0])
	}

	dict, ok := ops[1].operands[1].(map[string]any)
	if !ok || dict["MCID"] != 3.0 || string(dict["Alt"].(pdfString)) != "x" {
		t.Errorf("BDC dict = %#v", ops[1].operands[1])
	}

	if got := ops[2].operands; len(got) != 2 || got[0] != true || got[1] != nil {
		t.Errorf("Foo operands = %#v", got)
	}
}

func TestParseContent_SkipsCommentsAndInlineImages(t *testing.T) {
	input := "% leading comment\nq BI /W 2 /H 2 /BPC 8 ID \x00\xffEI\x01 data\nEI Q (after) Tj"
	ops, err := parseContent([]byte(input))
	if err != nil {
		t.Fatal(err)
	}

	var operators []string
	for _, op := range ops {
		operators = append(operators, op.operator)
	}
	if want := []string{"q", "BI", "ID", "Q", "Tj"}; !reflect.DeepEqual(operators, want) {
		t.Errorf("operators = %v, want %v", operators, want)
	}
}

func TestParseContent_TruncatedKeepsEarlierOps(t *testing.T) {
	ops, err := parseContent([]byte("(ok) Tj (unterminated"))
	if err == nil {
		t.Error("parseContent() should report the unterminated string")
	}
	if len(ops) != 1 || ops[0].operator != "Tj" {
		t.Errorf("ops = %#v, want the first Tj", ops)
	}
}

func TestPageText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "lines from T*",
			content: "BT /F1 12 Tf 72 720 Td (one) Tj T* (two) Tj ET",
			want:    "one\ntwo",
		},
		{
			name:    "horizontal move is a space",
			content: "BT (left) Tj 100 0 Td (right) Tj ET",
			want:    "left right",
		},
		{
			name:    "vertical move is a line break",
			content: "BT (top) Tj 0 -14 Td (bottom) Tj ET",
			want:    "top\nbottom",
		},
		{
			name:    "quote operators start lines",
			content: "BT (a) Tj (b) ' 1 2 (c) \" ET",
			want:    "a\nb\nc",
		},
		{
			name:    "TJ kerning gaps",
			content: "BT [(Hel) -20 (lo) -500 (world)] TJ ET",
			want:    "Hello world",
		},
		{
			name:    "text matrix rows",
			content: "BT 1 0 0 1 72 700 Tm (row1) Tj 1 0 0 1 200 700 Tm (same) Tj 1 0 0 1 72 680 Tm (row2) Tj ET",
			want:    "row1 same\nrow2",
		},
		{
			name:    "separate text objects",
			content: "BT (first) Tj ET BT (second) Tj ET",
			want:    "first\nsecond",
		},
		{
			name:    "no text",
			content: "q 1 0 0 1 0 0 cm Q",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := pageText([]byte(tt.content), nil)
			if got != tt.want {
				t.Errorf("pageText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageText_Runs(t *testing.T) {
	_, runs := pageText([]byte("BT (Visit) Tj [(https://example.com)] TJ ET"), nil)
	want := []Run{
		{Text: "Visit", Markup: "(Visit) Tj"},
		{Text: "https://example.com", Markup: "[(https://example.com)] TJ"},
	}
	if !reflect.DeepEqual(runs, want) {
		t.Errorf("runs = %#v, want %#v", runs, want)
	}
}

func TestDecode_WinAnsi(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"ascii", []byte("plain"), "plain"},
		{"winansi quotes", []byte{0x93, 'q', 0x94}, "“q”"},
		{"latin1", []byte{'c', 'a', 'f', 0xe9}, "café"},
		{"utf16 with bom", []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i', 0x20, 0xAC}, "Hi€"},
		{"controls dropped", []byte{'a', 0x01, '\t', 'b'}, "a\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := winAnsi.decode(tt.input); got != tt.want {
				t.Errorf("decode() = %q, want %q", got, tt.want)
			}
		})
	}
}
