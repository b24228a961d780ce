package argops

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"
)

func TestDefaultPipeline_Apply(t *testing.T) {
	p := DefaultPipeline()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "kernel compile line",
			in: []string{"riscv64-gcc", "-Iinclude", "-I/opt/sus", "-fno-toplevel-reorder",
				"-Wno-literal-suffix", "-fno-tree-scev-cprop", "-c", "kernel/main.cpp"},
			want: []string{"riscv64-gcc", "-isysteminclude", "-isystem/opt/sus",
				"-Wno-user-defined-literals", "-c", "kernel/main.cpp"},
		},
		{
			name: "unaffected",
			in:   []string{"clang++", "-std=c++20", "-O2", "-c", "a.cpp"},
			want: []string{"clang++", "-std=c++20", "-O2", "-c", "a.cpp"},
		},
		{
			name: "bare include flag",
			in:   []string{"gcc", "-I", "include"},
			want: []string{"gcc", "-isystem", "include"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Apply(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPipeline_OrderMatters(t *testing.T) {
	rename := MustRegexTransform(`^-Ox$`, "-Oy")
	drop := NewRemoveFlags("-Oy")

	if got := (Pipeline{rename, drop}).Apply([]string{"-Ox"}); len(got) != 0 {
		t.Errorf("rename then drop = %q, want empty", got)
	}
	if got := (Pipeline{drop, rename}).Apply([]string{"-Ox"}); len(got) != 1 || got[0] != "-Oy" {
		t.Errorf("drop then rename = %q, want [-Oy]", got)
	}
}

func TestPipeline_EmptyIsIdentity(t *testing.T) {
	in := []string{"a", "b"}
	if diff := cmp.Diff(in, Pipeline{}.Apply(in)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_RemovalFlags(t *testing.T) {
	p := Pipeline{
		NewRemoveFlags("-a", "-b"),
		MustRegexTransform(`x`, "y"),
		NewAddFlags("-c"),
		NewRemoveFlags("-d"),
	}
	if diff := cmp.Diff([]string{"-a", "-b", "-d"}, p.RemovalFlags()); diff != "" {
		t.Errorf("RemovalFlags() mismatch (-want +got):\n%s", diff)
	}
	if got := (Pipeline{NewAddFlags("-c")}).RemovalFlags(); got != nil {
		t.Errorf("RemovalFlags() = %q, want nil", got)
	}
}

func TestPipeline_String(t *testing.T) {
	got := DefaultPipeline().String()
	for _, part := range []string{"remove(-fno-toplevel-reorder, -fno-tree-scev-cprop)", "regex(^-I -> -isystem)", " | "} {
		if !strings.Contains(got, part) {
			t.Errorf("String() = %q, want to contain %q", got, part)
		}
	}
}

func TestDefaultPipeline_Idempotent(t *testing.T) {
	p := DefaultPipeline()
	rapid.Check(t, func(t *rapid.T) {
		args := rapid.SliceOf(token()).Draw(t, "args")

		once := p.Apply(args)
		twice := p.Apply(once)
		if diff := cmp.Diff(once, twice, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("second Apply() changed output (-once +twice):\n%s", diff)
		}
	})
}

func TestDefaultPipeline_NoOpOnUnaffected(t *testing.T) {
	p := DefaultPipeline()
	targeted := func(s string) bool {
		return s == "-fno-toplevel-reorder" || s == "-fno-tree-scev-cprop" ||
			strings.HasPrefix(s, "-I") || strings.HasPrefix(s, "-Wno-literal-suffix")
	}
	rapid.Check(t, func(t *rapid.T) {
		args := rapid.SliceOf(token().Filter(func(s string) bool { return !targeted(s) })).Draw(t, "args")

		if diff := cmp.Diff(args, p.Apply(args), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("Apply() changed unaffected input (-want +got):\n%s", diff)
		}
	})
}
