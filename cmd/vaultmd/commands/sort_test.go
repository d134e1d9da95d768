package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSortKeys(t *testing.T) {
	tests := []struct {
		name    string
		flag    []string
		want    [4]string
		wantErr bool
	}{
		{
			name: "empty uses defaults",
			flag: nil,
			want: [4]string{"Rank", "Projekt", "Task", "Stratus"},
		},
		{
			name: "full override",
			flag: []string{"rank", "project", "task", "status"},
			want: [4]string{"rank", "project", "task", "status"},
		},
		{
			name: "blank positions keep defaults",
			flag: []string{"", "Project", "", ""},
			want: [4]string{"Rank", "Project", "Task", "Stratus"},
		},
		{
			name:    "wrong count",
			flag:    []string{"a", "b"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := parseSortKeys(tt.flag)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := [4]string{keys.Rank, keys.Project, keys.Task, keys.Status}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortEndToEnd(t *testing.T) {
	root := t.TempDir()
	note := filepath.Join(root, "inbox", "task.md")
	if err := os.MkdirAll(filepath.Dir(note), 0755); err != nil {
		t.Fatal(err)
	}
	content := "---\nRank: R\nProjekt: P\nTask: ToDoList\nStratus: Open\n---\n\nbody\n"
	if err := os.WriteFile(note, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "sort", "--root", root)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	if !strings.Contains(out, "1 moved") {
		t.Errorf("missing moved count in output:\n%s", out)
	}

	moved := filepath.Join(root, "R", "P", "ToDoList", "Open", "task.md")
	if _, err := os.Stat(moved); err != nil {
		t.Errorf("note not moved to %s: %v", moved, err)
	}
}
