package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tsawler/docextract/model"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"text", "text", false},
		{"data_table", "data_table", false},
		{"my table", "my_table", false},
		{"my-table", "my_table", false},
		{"_private2", "_private2", false},
		{"2fast", "", true},
		{"", "", true},
		{`x"; DROP TABLE text; --`, "", true},
		{"a.b", "", true},
		{"naïve", "", true},
	}
	for _, tt := range tests {
		got, err := Identifier(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("Identifier(%q) error = %v, want ErrInvalidIdentifier", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Identifier(%q) = %q, %v, want %q", tt.name, got, err, tt.want)
		}
	}
}

func openTestSQL(t *testing.T) *SQLStorage {
	t.Helper()
	s, err := OpenSQL(filepath.Join(t.TempDir(), "artifacts.db"))
	if err != nil {
		t.Fatalf("OpenSQL() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStorage_StoreTwiceYieldsTwoRows(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	for i := 0; i < 2; i++ {
		if err := s.Store(ctx, "text", "x"); err != nil {
			t.Fatalf("Store() #%d error = %v", i+1, err)
		}
	}

	rows, err := s.RetrieveAll(ctx, "text")
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{{ID: 1, Data: "x"}, {ID: 2, Data: "x"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("RetrieveAll() = %+v, want %+v", rows, want)
	}
}

func TestSQLStorage_SanitizedNameOnRetrieval(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	if err := s.Store(ctx, "my table", "x"); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"my table", "my_table", "my-table"} {
		rows, err := s.RetrieveAll(ctx, name)
		if err != nil {
			t.Fatalf("RetrieveAll(%q) error = %v", name, err)
		}
		if len(rows) != 1 || rows[0].Data != "x" {
			t.Errorf("RetrieveAll(%q) = %+v, want one row", name, rows)
		}
	}
}

func TestSQLStorage_RejectsInjectedIdentifier(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)
	if err := s.Store(ctx, "text", "keep me"); err != nil {
		t.Fatal(err)
	}

	err := s.Store(ctx, `text" (data) VALUES ('x'); DROP TABLE "text`, "payload")
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("Store() error = %v, want ErrInvalidIdentifier", err)
	}

	rows, err := s.RetrieveAll(ctx, "text")
	if err != nil || len(rows) != 1 {
		t.Errorf("text table after rejected store = %+v, %v", rows, err)
	}
}

func TestSQLStorage_Serialization(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	links := []model.Link{{LinkedText: "home", URL: "https://example.com", PageNumber: model.PageRef(2)}}
	inputs := []struct {
		data any
		want string
	}{
		{"plain text", "plain text"},
		{[]byte("raw bytes"), "raw bytes"},
		{links, `[{"linked_text":"home","url":"https://example.com","page_number":2}]`},
		{[]model.Table{{{"a", "b"}, {"c"}}}, `[[["a","b"],["c"]]]`},
	}
	for _, in := range inputs {
		if err := s.Store(ctx, "mixed", in.data); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := s.RetrieveAll(ctx, "mixed")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(inputs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(inputs))
	}
	for i, in := range inputs {
		if rows[i].Data != in.want {
			t.Errorf("row %d = %q, want %q", i+1, rows[i].Data, in.want)
		}
	}
}

func TestSQLStorage_RetrieveByID(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)
	for _, v := range []string{"first", "second"} {
		if err := s.Store(ctx, "url", v); err != nil {
			t.Fatal(err)
		}
	}

	row, err := s.RetrieveByID(ctx, "url", 2)
	if err != nil {
		t.Fatal(err)
	}
	if row == nil || row.ID != 2 || row.Data != "second" {
		t.Errorf("RetrieveByID(2) = %+v", row)
	}

	row, err = s.RetrieveByID(ctx, "url", 99)
	if err != nil || row != nil {
		t.Errorf("RetrieveByID(99) = %+v, %v, want nil, nil", row, err)
	}

	row, err = s.RetrieveByID(ctx, "image", 1)
	if err != nil || row != nil {
		t.Errorf("RetrieveByID on missing table = %+v, %v, want nil, nil", row, err)
	}
}

func TestSQLStorage_RetrieveAllMissingTable(t *testing.T) {
	rows, err := openTestSQL(t).RetrieveAll(context.Background(), "data_table")
	if err != nil || len(rows) != 0 {
		t.Errorf("RetrieveAll() = %+v, %v, want no rows", rows, err)
	}
}

func TestSQLStorage_Closed(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQL(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Closed wins over a bad identifier or payload.
	for _, kind := range []string{"text", "bad$name"} {
		if err := s.Store(ctx, kind, "x"); !errors.Is(err, ErrStorageClosed) {
			t.Errorf("Store(%q) error = %v, want ErrStorageClosed", kind, err)
		}
		if _, err := s.RetrieveAll(ctx, kind); !errors.Is(err, ErrStorageClosed) {
			t.Errorf("RetrieveAll(%q) error = %v, want ErrStorageClosed", kind, err)
		}
		if _, err := s.RetrieveByID(ctx, kind, 1); !errors.Is(err, ErrStorageClosed) {
			t.Errorf("RetrieveByID(%q) error = %v, want ErrStorageClosed", kind, err)
		}
	}
	if err := s.Store(ctx, "text", make(chan int)); !errors.Is(err, ErrStorageClosed) {
		t.Errorf("Store(unserializable) error = %v, want ErrStorageClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSQLStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	s, err := OpenSQL(path, WithMkdirAll(), WithBusyTimeout(500))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Store(ctx, "data_table", "[]"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQL(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	rows, err := s.RetrieveAll(ctx, "data_table")
	if err != nil || len(rows) != 1 {
		t.Errorf("RetrieveAll() after reopen = %+v, %v", rows, err)
	}
}

func TestFileStorage_Text(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStorage(root)

	for i := 0; i < 2; i++ {
		if err := fs.Store("hello\nworld\n", "/input/report.docx", model.KindText); err != nil {
			t.Fatalf("Store() #%d error = %v", i+1, err)
		}
	}

	dir := fs.Dir("/input/report.docx")
	if want := filepath.Join(root, "report.docx"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, TextFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\nworld\n" {
		t.Errorf("text.txt = %q, want content stored once", data)
	}
}

func TestFileStorage_Tables(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStorage(root)

	tables := []model.Table{{{"a", "b"}, {"c"}}}
	if err := fs.Store(tables, "deck.pptx", model.KindTable); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "deck.pptx", TableFile))
	if err != nil {
		t.Fatal(err)
	}
	var got []model.Table
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tables) {
		t.Errorf("table.json = %v, want %v", got, tables)
	}

	if err := fs.Store([]model.Table(nil), "empty.pdf", model.KindTable); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(filepath.Join(root, "empty.pdf", TableFile))
	if err != nil || string(data) != "[]" {
		t.Errorf("empty table.json = %q, %v, want []", data, err)
	}
}

func TestFileStorage_URLs(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStorage(root)

	links := []model.Link{
		{LinkedText: "docs, part 1", URL: "https://example.com/docs", PageNumber: model.PageRef(3)},
		{URL: "https://unattributed.example"},
	}
	if err := fs.Store(links, "paper.pdf", model.KindURL); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(root, "paper.pdf", URLFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"linked_text", "url", "page_number"},
		{"docs, part 1", "https://example.com/docs", "3"},
		{"", "https://unattributed.example", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("url.csv = %v, want %v", records, want)
	}
}

func TestFileStorage_ImagesReplaceDirectory(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStorage(root)

	first := []model.Image{
		{Data: []byte("one"), Ext: "png"},
		{Data: []byte("two"), Ext: "jpeg"},
	}
	if err := fs.Store(first, "memo.docx", model.KindImage); err != nil {
		t.Fatal(err)
	}
	second := []model.Image{{Data: []byte("only"), Ext: "gif"}}
	if err := fs.Store(second, "memo.docx", model.KindImage); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(root, "memo.docx", ImageDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if !reflect.DeepEqual(names, []string{"image_1.gif"}) {
		t.Errorf("image dir = %v, want [image_1.gif]", names)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "image_1.gif"))
	if string(data) != "only" {
		t.Errorf("image_1.gif = %q", data)
	}
}

func TestFileStorage_ArtifactTypeMismatch(t *testing.T) {
	fs := NewFileStorage(t.TempDir())

	tests := []struct {
		artifact any
		kind     model.Kind
	}{
		{[]byte("bytes"), model.KindText},
		{"text", model.KindImage},
		{[]string{"x"}, model.KindURL},
		{[][]string{{"x"}}, model.KindTable},
	}
	for _, tt := range tests {
		if err := fs.Store(tt.artifact, "doc.pdf", tt.kind); !errors.Is(err, ErrArtifactType) {
			t.Errorf("Store(%T, %v) error = %v, want ErrArtifactType", tt.artifact, tt.kind, err)
		}
	}
}

func TestFileStorage_InvalidSourceName(t *testing.T) {
	fs := NewFileStorage(t.TempDir())
	if err := fs.Store("x", "..", model.KindText); err == nil {
		t.Error("Store() with source name .. should fail")
	}
}
